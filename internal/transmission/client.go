// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package transmission adapts the Transmission RPC API to the download client capability.
package transmission

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/hekmon/transmissionrpc/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/seedsweep/internal/buildinfo"
	"github.com/autobrr/seedsweep/internal/domain"
)

// torrentFields are the only fields requested from torrent-get.
var torrentFields = []string{
	"id",
	"name",
	"downloadDir",
	"files",
	"errorString",
	"secondsSeeding",
}

// rpc is the subset of transmissionrpc used here.
type rpc interface {
	TorrentGet(ctx context.Context, fields []string, ids []int64) ([]transmissionrpc.Torrent, error)
	TorrentRemove(ctx context.Context, payload transmissionrpc.TorrentRemovePayload) error
}

type Client struct {
	rpc rpc
}

// NewClient connects to endpoint with basic auth and checks RPC compatibility.
func NewClient(ctx context.Context, endpoint *url.URL, username, password string) (*Client, error) {
	u := *endpoint
	u.User = url.UserPassword(username, password)

	tc, err := transmissionrpc.New(&u, &transmissionrpc.Config{
		UserAgent: buildinfo.UserAgent,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create transmission client")
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	ok, serverVersion, minimumVersion, err := tc.RPCVersion(checkCtx)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to transmission at %s", u.Redacted())
	}
	if !ok {
		return nil, errors.Errorf("transmission rpc version %d is not supported (server requires >= %d)", serverVersion, minimumVersion)
	}

	log.Debug().
		Str("url", u.Redacted()).
		Int64("rpcVersion", serverVersion).
		Msg("transmission client created successfully")

	return &Client{rpc: tc}, nil
}

// Torrents returns every torrent in a single torrent-get call.
func (c *Client) Torrents(ctx context.Context) ([]domain.Torrent, error) {
	torrents, err := c.rpc.TorrentGet(ctx, torrentFields, nil)
	if err != nil {
		return nil, errors.Wrap(err, "torrent-get failed")
	}

	out := make([]domain.Torrent, 0, len(torrents))
	for _, t := range torrents {
		out = append(out, toDomain(t))
	}
	return out, nil
}

// RemoveTorrent issues torrent-remove for a single id. deleteData=false keeps the files.
func (c *Client) RemoveTorrent(ctx context.Context, id string, deleteData bool) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid transmission torrent id %q", id)
	}

	if err := c.rpc.TorrentRemove(ctx, transmissionrpc.TorrentRemovePayload{
		IDs:             []int64{n},
		DeleteLocalData: deleteData,
	}); err != nil {
		return errors.Wrapf(err, "torrent-remove failed for id %s", id)
	}
	return nil
}

// toDomain converts a torrent-get result. Missing fields make the torrent ineligible:
// no id leaves ID empty, an unknown error state becomes a non-empty error string and an
// unknown seed time becomes negative.
func toDomain(t transmissionrpc.Torrent) domain.Torrent {
	out := domain.Torrent{SecondsSeeding: -1}

	if t.ID != nil {
		out.ID = strconv.FormatInt(*t.ID, 10)
	}
	if t.Name != nil {
		out.Name = *t.Name
	}
	if t.DownloadDir != nil {
		out.DownloadDir = *t.DownloadDir
	}
	if t.ErrorString != nil {
		out.ErrorString = *t.ErrorString
	} else {
		out.ErrorString = "error state not reported"
	}
	if t.SecondsSeeding != nil {
		out.SecondsSeeding = int64(*t.SecondsSeeding / time.Second)
	}

	out.Files = make([]string, 0, len(t.Files))
	for _, f := range t.Files {
		out.Files = append(out.Files, f.Name)
	}

	return out
}
