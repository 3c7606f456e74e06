// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package mediaindex builds the set of file identities present in the media library.
package mediaindex

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/seedsweep/pkg/hardlink"
)

// Stats describes a completed index build.
type Stats struct {
	Roots    int
	Files    int
	Unique   int
	Skipped  int
	Warnings int
	Took     time.Duration
}

// Build walks every root concurrently and merges the per-root sets once all walks finish.
// Unreadable roots and entries only produce warnings, so the returned set may be partial;
// the only error is context cancellation.
func Build(ctx context.Context, roots []string) (hardlink.Set, Stats, error) {
	start := time.Now()

	sets := make([]hardlink.Set, len(roots))
	perRoot := make([]rootStats, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			l := log.With().Str("root", root).Logger()
			l.Info().Msg("mediaindex: scanning media root")

			ids, stats, err := walkRoot(gctx, root, l)
			if err != nil {
				return err
			}
			sets[i] = ids
			perRoot[i] = stats

			l.Debug().
				Int("files", stats.files).
				Int("skipped", stats.skipped).
				Int("warnings", stats.warnings).
				Msg("mediaindex: media root scanned")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	index := make(hardlink.Set)
	stats := Stats{Roots: len(roots)}
	for i := range sets {
		index.Merge(sets[i])
		stats.Files += perRoot[i].files
		stats.Skipped += perRoot[i].skipped
		stats.Warnings += perRoot[i].warnings
	}
	stats.Unique = index.Len()
	stats.Took = time.Since(start)

	log.Info().
		Int("roots", stats.Roots).
		Int("files", stats.Files).
		Int("identities", stats.Unique).
		Int("warnings", stats.Warnings).
		Dur("took", stats.Took).
		Msg("mediaindex: media index built")

	return index, stats, nil
}
