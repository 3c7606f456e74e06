// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbittorrent

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/seedsweep/internal/domain"
)

const (
	// Oldest WebAPI that reports seeding_time in torrents/info.
	minWebAPIVersion = "2.0.0"
	fileListWorkers  = 8
)

// api is the subset of go-qbittorrent used here.
type api interface {
	GetTorrentsCtx(ctx context.Context, o qbt.TorrentFilterOptions) ([]qbt.Torrent, error)
	GetFilesInformationCtx(ctx context.Context, hash string) (*qbt.TorrentFiles, error)
	DeleteTorrentsCtx(ctx context.Context, hashes []string, deleteFiles bool) error
}

type Client struct {
	api           api
	host          string
	webAPIVersion string
}

// filteredWriter wraps stderr to filter out HTTP "unsolicited response" errors.
//
// qBittorrent occasionally sends extra HTTP responses after the main request completes,
// which causes Go's HTTP client to log "Unsolicited response received on idle HTTP channel"
// errors to stderr. The go-qbittorrent library doesn't expose its HTTP client, so these are
// filtered at the standard library log level.
type filteredWriter struct {
	writer io.Writer
}

func (fw *filteredWriter) Write(p []byte) (n int, err error) {
	if strings.Contains(string(p), "Unsolicited response received on idle HTTP channel") {
		return len(p), nil
	}
	return fw.writer.Write(p)
}

func init() {
	stdlog.SetOutput(&filteredWriter{writer: os.Stderr})
}

// NewClient logs in and verifies the WebAPI version. Any failure here is fatal for the run.
func NewClient(ctx context.Context, host, username, password string) (*Client, error) {
	qbtClient := qbt.NewClient(qbt.Config{
		Host:     host,
		Username: username,
		Password: password,
		Timeout:  30,
	})

	loginCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := qbtClient.LoginCtx(loginCtx); err != nil {
		return nil, errors.Wrap(err, "failed to connect to qBittorrent instance")
	}

	webAPIVersion, err := qbtClient.GetWebAPIVersionCtx(loginCtx)
	if err != nil {
		return nil, errors.Wrap(err, "could not read qBittorrent WebAPI version")
	}
	if err := checkWebAPIVersion(webAPIVersion); err != nil {
		return nil, err
	}

	log.Debug().
		Str("host", host).
		Str("webAPIVersion", webAPIVersion).
		Msg("qBittorrent client created successfully")

	return &Client{api: qbtClient, host: host, webAPIVersion: webAPIVersion}, nil
}

func checkWebAPIVersion(raw string) error {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("unparsable qBittorrent WebAPI version %q: %w", raw, err)
	}
	if v.LessThan(semver.MustParse(minWebAPIVersion)) {
		return fmt.Errorf("qBittorrent WebAPI %s is older than the supported minimum %s", raw, minWebAPIVersion)
	}
	return nil
}

func (c *Client) GetWebAPIVersion() string {
	return c.webAPIVersion
}

// Torrents lists every torrent along with its file list. A failure to list any torrent's
// files fails the whole query so the caller never acts on a partial snapshot.
func (c *Client) Torrents(ctx context.Context) ([]domain.Torrent, error) {
	torrents, err := c.api.GetTorrentsCtx(ctx, qbt.TorrentFilterOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "could not list torrents")
	}

	out := make([]domain.Torrent, len(torrents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileListWorkers)
	for i := range torrents {
		g.Go(func() error {
			t := torrents[i]
			files, err := c.api.GetFilesInformationCtx(gctx, t.Hash)
			if err != nil {
				return errors.Wrapf(err, "could not list files for torrent %s", t.Hash)
			}
			out[i] = toDomain(t, files)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// RemoveTorrent deletes the torrent from qBittorrent. deleteData=false keeps the files.
func (c *Client) RemoveTorrent(ctx context.Context, id string, deleteData bool) error {
	if err := c.api.DeleteTorrentsCtx(ctx, []string{id}, deleteData); err != nil {
		return errors.Wrapf(err, "could not delete torrent %s", id)
	}
	return nil
}

func toDomain(t qbt.Torrent, files *qbt.TorrentFiles) domain.Torrent {
	out := domain.Torrent{
		ID:             t.Hash,
		Name:           t.Name,
		DownloadDir:    t.SavePath,
		ErrorString:    errorString(t.State),
		SecondsSeeding: t.SeedingTime,
	}
	if files != nil {
		out.Files = make([]string, 0, len(*files))
		for _, f := range *files {
			out.Files = append(out.Files, f.Name)
		}
	}
	return out
}

// errorString maps qBittorrent's error states onto the error-string contract.
func errorString(state qbt.TorrentState) string {
	switch state {
	case qbt.TorrentStateError:
		return "torrent is in error state"
	case qbt.TorrentStateMissingFiles:
		return "torrent files are missing"
	default:
		return ""
	}
}
