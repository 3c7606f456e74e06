// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/pkg/hardlink"
)

const week = 7 * 24 * time.Hour

type fakeLister struct {
	torrents []domain.Torrent
	err      error
	calls    int
}

func (f *fakeLister) Torrents(context.Context) ([]domain.Torrent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.torrents, nil
}

func mustWrite(t *testing.T, path string) hardlink.FileID {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(path), 0o600))
	res := hardlink.Resolve(path)
	require.True(t, res.OK())
	return res.ID
}

func TestFilterCheck(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{"/data/torrents/tv", "/data/torrents/movies/"}, int64(week/time.Second))
	seeded := int64(week / time.Second)

	tests := []struct {
		name    string
		torrent domain.Torrent
		want    Rejection
	}{
		{
			name:    "eligible",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/data/torrents/tv", SecondsSeeding: seeded},
			want:    Accepted,
		},
		{
			name:    "trailing slash on client path",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/data/torrents/movies/", SecondsSeeding: seeded + 1},
			want:    Accepted,
		},
		{
			name:    "error string set",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/data/torrents/tv", SecondsSeeding: seeded, ErrorString: "No data found!"},
			want:    RejectError,
		},
		{
			name:    "nested below a root is not a root",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/data/torrents/tv/anime", SecondsSeeding: seeded},
			want:    RejectRoot,
		},
		{
			name:    "unknown root",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/srv/other", SecondsSeeding: seeded},
			want:    RejectRoot,
		},
		{
			name:    "seeded one second too short",
			torrent: domain.Torrent{ID: "1", DownloadDir: "/data/torrents/tv", SecondsSeeding: seeded - 1},
			want:    RejectSeedTime,
		},
		{
			name:    "no identifier",
			torrent: domain.Torrent{DownloadDir: "/data/torrents/tv", SecondsSeeding: seeded},
			want:    RejectIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Check(tt.torrent))
		})
	}
}

func TestFetch_ResolvesEligibleTorrents(t *testing.T) {
	t.Parallel()

	downloads := t.TempDir()
	other := t.TempDir()

	ep1 := mustWrite(t, filepath.Join(downloads, "Show.S01", "E01.mkv"))
	ep2 := mustWrite(t, filepath.Join(downloads, "Show.S01", "E02.mkv"))
	single := mustWrite(t, filepath.Join(downloads, "Movie.2024.mkv"))
	erroredID := mustWrite(t, filepath.Join(downloads, "Broken.mkv"))

	lister := &fakeLister{torrents: []domain.Torrent{
		{ID: "1", Name: "Show.S01", DownloadDir: downloads, SecondsSeeding: 700000,
			Files: []string{"Show.S01/E01.mkv", "Show.S01/E02.mkv", "Show.S01/E03.mkv"}},
		{ID: "2", Name: "Movie.2024", DownloadDir: downloads + "/", SecondsSeeding: 604800,
			Files: []string{"Movie.2024.mkv"}},
		{ID: "3", Name: "Broken", DownloadDir: downloads, SecondsSeeding: 900000, ErrorString: "tracker error",
			Files: []string{"Broken.mkv"}},
		{ID: "4", Name: "Fresh", DownloadDir: downloads, SecondsSeeding: 60, Files: []string{"Movie.2024.mkv"}},
		{ID: "5", Name: "Elsewhere", DownloadDir: other, SecondsSeeding: 900000},
		{ID: "", Name: "NoID", DownloadDir: downloads, SecondsSeeding: 900000, Files: []string{"Movie.2024.mkv"}},
	}}

	records, stats, err := Fetch(context.Background(), lister, Options{
		DownloadDirs: []string{downloads},
		MinSeedTime:  week,
		Workers:      2,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, lister.calls)

	show := records[0]
	assert.Equal(t, "1", show.ID)
	assert.Equal(t, 3, show.FileCount)
	assert.Equal(t, []hardlink.FileID{ep1, ep2}, show.FileIDs)
	require.Len(t, show.Skipped, 1)
	assert.Equal(t, hardlink.SkipMissing, show.Skipped[0].Reason)
	assert.False(t, show.FullyResolved())

	movie := records[1]
	assert.Equal(t, "2", movie.ID)
	assert.Equal(t, []hardlink.FileID{single}, movie.FileIDs)
	assert.True(t, movie.FullyResolved())

	for _, r := range records {
		assert.NotContains(t, r.FileIDs, erroredID, "errored torrents are never considered")
	}

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Eligible)
	assert.Equal(t, 1, stats.Rejected[RejectError])
	assert.Equal(t, 1, stats.Rejected[RejectSeedTime])
	assert.Equal(t, 1, stats.Rejected[RejectRoot])
	assert.Equal(t, 1, stats.Rejected[RejectIdentifier])
	assert.Equal(t, 1, stats.SkippedFiles)
}

func TestFetch_IsIdempotent(t *testing.T) {
	t.Parallel()

	downloads := t.TempDir()
	mustWrite(t, filepath.Join(downloads, "a.mkv"))
	mustWrite(t, filepath.Join(downloads, "b.mkv"))

	var torrents []domain.Torrent
	for i, name := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		torrents = append(torrents, domain.Torrent{
			ID: string(rune('1' + i)), Name: name, DownloadDir: downloads,
			SecondsSeeding: int64(i) * 700000, Files: []string{name},
		})
	}
	lister := &fakeLister{torrents: torrents}
	opts := Options{DownloadDirs: []string{downloads}, MinSeedTime: week, Workers: 4}

	first, _, err := Fetch(context.Background(), lister, opts)
	require.NoError(t, err)
	second, _, err := Fetch(context.Background(), lister, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "2", first[0].ID)
	assert.Equal(t, "3", first[1].ID)
	assert.Empty(t, first[1].FileIDs)
}

func TestFetch_RejectsPathsEscapingTheRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	downloads := filepath.Join(base, "downloads")
	require.NoError(t, os.MkdirAll(downloads, 0o755))
	mustWrite(t, filepath.Join(base, "secret.mkv"))

	lister := &fakeLister{torrents: []domain.Torrent{{
		ID: "1", Name: "evil", DownloadDir: downloads, SecondsSeeding: 900000,
		Files: []string{"../secret.mkv"},
	}}}

	records, _, err := Fetch(context.Background(), lister, Options{DownloadDirs: []string{downloads}, MinSeedTime: week})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].FileIDs)
	require.Len(t, records[0].Skipped, 1)
	assert.Equal(t, hardlink.SkipOutsideRoot, records[0].Skipped[0].Reason)
}

func TestFetch_QueryFailureIsFatal(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	records, _, err := Fetch(context.Background(), &fakeLister{err: boom}, Options{DownloadDirs: []string{"/data"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, records)
}

func TestIsPathInsideBase(t *testing.T) {
	sep := string(os.PathSeparator)
	base := sep + "data" + sep + "torrents"

	assert.True(t, isPathInsideBase(base, base+sep+"file.mkv"))
	assert.True(t, isPathInsideBase(base, base+sep+"."+sep+"file.mkv"))
	assert.False(t, isPathInsideBase(base, base+sep+".."+sep+"secret"))
	assert.False(t, isPathInsideBase(base, sep+"etc"+sep+"passwd"))
}
