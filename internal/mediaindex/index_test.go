// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package mediaindex

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/seedsweep/pkg/hardlink"
)

func writeFile(t *testing.T, path string) hardlink.FileID {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(path), 0o600))
	res := hardlink.Resolve(path)
	require.True(t, res.OK(), "resolve %s: %v", path, res.Err)
	return res.ID
}

func TestBuild_IndexesRegularFilesAcrossRoots(t *testing.T) {
	t.Parallel()

	tv := t.TempDir()
	movies := t.TempDir()
	downloads := t.TempDir()

	a := writeFile(t, filepath.Join(tv, "Show", "Season 01", "S01E01.mkv"))
	b := writeFile(t, filepath.Join(movies, "Movie (2024)", "Movie.mkv"))

	// A hard link from the download dir must resolve to an identity already in the index.
	require.NoError(t, os.Link(filepath.Join(movies, "Movie (2024)", "Movie.mkv"), filepath.Join(downloads, "Movie.2024.mkv")))
	linked := hardlink.Resolve(filepath.Join(downloads, "Movie.2024.mkv"))
	require.True(t, linked.OK())

	index, stats, err := Build(context.Background(), []string{tv, movies})
	require.NoError(t, err)

	assert.Equal(t, 2, index.Len())
	assert.True(t, index.Has(a))
	assert.True(t, index.Has(b))
	assert.True(t, index.Has(linked.ID))
	assert.Equal(t, 2, stats.Roots)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 2, stats.Unique)
}

func TestBuild_DeduplicatesHardLinksWithinLibrary(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	first := filepath.Join(root, "a.mkv")
	writeFile(t, first)
	require.NoError(t, os.Link(first, filepath.Join(root, "b.mkv")))

	index, stats, err := Build(context.Background(), []string{root, root})
	require.NoError(t, err)
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 1, stats.Unique)
}

func TestBuild_RootOrderDoesNotMatter(t *testing.T) {
	t.Parallel()

	r1, r2, r3 := t.TempDir(), t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(r1, "one"))
	writeFile(t, filepath.Join(r2, "nested", "two"))
	writeFile(t, filepath.Join(r3, "three"))

	forward, _, err := Build(context.Background(), []string{r1, r2, r3})
	require.NoError(t, err)
	reverse, _, err := Build(context.Background(), []string{r3, r2, r1})
	require.NoError(t, err)

	assert.Equal(t, forward.Sorted(), reverse.Sorted())
}

func TestBuild_SkipsSymlinksAndDoesNotFollowDirectoryLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	inside := writeFile(t, filepath.Join(root, "real.mkv"))
	outsideID := writeFile(t, filepath.Join(outside, "elsewhere.mkv"))

	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked-dir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "elsewhere.mkv"), filepath.Join(root, "linked-file.mkv")))
	// A cycle back to the root must not hang the walk.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	index, stats, err := Build(context.Background(), []string{root})
	require.NoError(t, err)

	assert.True(t, index.Has(inside))
	assert.False(t, index.Has(outsideID))
	assert.Equal(t, 1, index.Len())
	assert.Equal(t, 3, stats.Skipped)
}

func TestBuild_MissingRootIsAWarningNotAnError(t *testing.T) {
	t.Parallel()

	good := t.TempDir()
	id := writeFile(t, filepath.Join(good, "file"))

	index, stats, err := Build(context.Background(), []string{filepath.Join(t.TempDir(), "gone"), good})
	require.NoError(t, err)
	assert.True(t, index.Has(id))
	assert.Equal(t, 1, stats.Warnings)
}

func TestBuild_UnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	t.Parallel()

	root := t.TempDir()
	visible := writeFile(t, filepath.Join(root, "visible.mkv"))
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.mkv"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	index, stats, err := Build(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, index.Has(visible))
	assert.Equal(t, 1, index.Len())
	assert.GreaterOrEqual(t, stats.Warnings, 1)
}

func TestBuild_HonorsCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "file"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Build(ctx, []string{root})
	require.ErrorIs(t, err, context.Canceled)
}
