// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package inventory fetches the download client's torrents, keeps the eligible ones and
// resolves their files to filesystem identities.
package inventory

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/seedsweep/internal/domain"
)

const defaultWorkers = 8

// TorrentLister is the query half of the download client capability.
type TorrentLister interface {
	Torrents(ctx context.Context) ([]domain.Torrent, error)
}

type Options struct {
	DownloadDirs []string
	MinSeedTime  time.Duration
	// Workers bounds concurrent per-torrent file resolution.
	Workers int
}

// Stats counts what happened to each torrent reported by the client.
type Stats struct {
	Total        int
	Eligible     int
	Rejected     map[Rejection]int
	SkippedFiles int
	Took         time.Duration
}

// Fetch queries the client once and returns the eligible torrents with resolved identities,
// in the order the client reported them. A failed query is fatal: no partial inventory is returned.
func Fetch(ctx context.Context, client TorrentLister, opts Options) ([]domain.TorrentRecord, Stats, error) {
	start := time.Now()

	torrents, err := client.Torrents(ctx)
	if err != nil {
		return nil, Stats{}, errors.Wrap(err, "could not fetch torrents from download client")
	}

	filter := NewFilter(opts.DownloadDirs, int64(opts.MinSeedTime/time.Second))
	eligible, stats := selectEligible(filter, torrents)

	records := make([]domain.TorrentRecord, len(eligible))

	workers := opts.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = resolveTorrent(eligible[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	for i := range records {
		stats.SkippedFiles += len(records[i].Skipped)
	}
	stats.Took = time.Since(start)

	log.Info().
		Int("torrents", stats.Total).
		Int("eligible", stats.Eligible).
		Int("skippedFiles", stats.SkippedFiles).
		Dur("took", stats.Took).
		Msg("inventory: torrent inventory fetched")

	return records, stats, nil
}

func selectEligible(filter *Filter, torrents []domain.Torrent) ([]domain.Torrent, Stats) {
	stats := Stats{
		Total:    len(torrents),
		Rejected: make(map[Rejection]int),
	}

	eligible := make([]domain.Torrent, 0, len(torrents))
	for _, t := range torrents {
		switch reason := filter.Check(t); reason {
		case Accepted:
			eligible = append(eligible, t)
		case RejectIdentifier:
			stats.Rejected[reason]++
			log.Warn().Str("torrent", t.Name).Msg("inventory: dropping torrent without a usable identifier")
		default:
			stats.Rejected[reason]++
			log.Trace().Str("torrent", t.Name).Str("reason", string(reason)).Msg("inventory: torrent not eligible")
		}
	}
	stats.Eligible = len(eligible)

	return eligible, stats
}
