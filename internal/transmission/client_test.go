// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package transmission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hekmon/transmissionrpc/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRPC struct {
	torrents []transmissionrpc.Torrent
	getErr   error
	fields   []string
	removed  []transmissionrpc.TorrentRemovePayload
	rmErr    error
}

func (f *fakeRPC) TorrentGet(_ context.Context, fields []string, _ []int64) ([]transmissionrpc.Torrent, error) {
	f.fields = fields
	return f.torrents, f.getErr
}

func (f *fakeRPC) TorrentRemove(_ context.Context, payload transmissionrpc.TorrentRemovePayload) error {
	f.removed = append(f.removed, payload)
	return f.rmErr
}

func ptr[T any](v T) *T {
	return &v
}

func TestTorrents_ConvertsFields(t *testing.T) {
	seeded := 8 * 24 * time.Hour
	rpc := &fakeRPC{torrents: []transmissionrpc.Torrent{
		{
			ID:             ptr(int64(42)),
			Name:           ptr("Show.S01"),
			DownloadDir:    ptr("/data/torrents/tv"),
			ErrorString:    ptr(""),
			SecondsSeeding: &seeded,
			Files: []transmissionrpc.TorrentFile{
				{Name: "Show.S01/E01.mkv"},
				{Name: "Show.S01/E02.mkv"},
			},
		},
		{Name: ptr("partial response")},
	}}
	c := &Client{rpc: rpc}

	torrents, err := c.Torrents(context.Background())
	require.NoError(t, err)
	require.Len(t, torrents, 2)

	assert.ElementsMatch(t, []string{"id", "name", "downloadDir", "files", "errorString", "secondsSeeding"}, rpc.fields)

	got := torrents[0]
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, "Show.S01", got.Name)
	assert.Equal(t, "/data/torrents/tv", got.DownloadDir)
	assert.Empty(t, got.ErrorString)
	assert.Equal(t, int64(seeded/time.Second), got.SecondsSeeding)
	assert.Equal(t, []string{"Show.S01/E01.mkv", "Show.S01/E02.mkv"}, got.Files)

	partial := torrents[1]
	assert.Empty(t, partial.ID)
	assert.NotEmpty(t, partial.ErrorString)
	assert.Equal(t, int64(-1), partial.SecondsSeeding)
	assert.Empty(t, partial.Files)
}

func TestTorrents_QueryError(t *testing.T) {
	c := &Client{rpc: &fakeRPC{getErr: errors.New("409 conflict")}}

	torrents, err := c.Torrents(context.Background())
	require.Error(t, err)
	assert.Nil(t, torrents)
}

func TestRemoveTorrent(t *testing.T) {
	rpc := &fakeRPC{}
	c := &Client{rpc: rpc}

	require.NoError(t, c.RemoveTorrent(context.Background(), "42", false))
	require.Len(t, rpc.removed, 1)
	assert.Equal(t, []int64{42}, rpc.removed[0].IDs)
	assert.False(t, rpc.removed[0].DeleteLocalData)

	require.Error(t, c.RemoveTorrent(context.Background(), "abc", false))
	assert.Len(t, rpc.removed, 1, "invalid ids never reach the server")

	rpc.rmErr = errors.New("invalid or corrupt torrent")
	err := c.RemoveTorrent(context.Background(), "7", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7")
}
