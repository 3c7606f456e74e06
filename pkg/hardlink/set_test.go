// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package hardlink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileIDFor(t *testing.T, path string) FileID {
	t.Helper()
	res := Resolve(path)
	require.True(t, res.OK(), "resolve %s: %v", path, res.Err)
	return res.ID
}

func TestSet_MergeDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a"), filepath.Join(dir, "b"), filepath.Join(dir, "c")}
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, []byte(p), 0o600))
	}
	a, b, c := fileIDFor(t, paths[0]), fileIDFor(t, paths[1]), fileIDFor(t, paths[2])

	left := NewSet(a, b)
	right := NewSet(b, c, c)
	left.Merge(right)

	assert.Equal(t, 3, left.Len())
	assert.True(t, left.Has(a))
	assert.True(t, left.Has(c))
	assert.Equal(t, 2, right.Len())
}

func TestSet_SortedIsStable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var ids []FileID
	for _, name := range []string{"x", "y", "z"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
		ids = append(ids, fileIDFor(t, p))
	}

	s := NewSet(ids[2], ids[0], ids[1])
	sorted := s.Sorted()
	require.Len(t, sorted, 3)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, sorted[i-1].Less(sorted[i]))
	}
	assert.Equal(t, sorted, NewSet(ids...).Sorted())
}
