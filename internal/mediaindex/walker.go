// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package mediaindex

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/autobrr/seedsweep/pkg/hardlink"
)

// rootStats summarizes a single root walk.
type rootStats struct {
	files    int
	skipped  int
	warnings int
}

// walkRoot collects the FileIDs of every regular file below root into a fresh set.
// Entry errors are logged and skipped; only context cancellation aborts the walk.
func walkRoot(ctx context.Context, root string, l zerolog.Logger) (hardlink.Set, rootStats, error) {
	ids := make(hardlink.Set)
	var stats rootStats

	// The root itself may be a symlink; nothing below it is followed.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			stats.warnings++
			l.Warn().Err(err).Str("path", path).Msg("mediaindex: skipping unreadable entry")
			// Returning nil for a directory read failure skips its contents;
			// for the root itself it ends this walk without failing the run.
			return nil
		}

		// Don't follow symlink directories
		if d.Type()&fs.ModeSymlink != 0 {
			stats.skipped++
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			stats.skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			stats.warnings++
			l.Warn().Err(err).Str("path", path).Msg("mediaindex: could not stat file")
			return nil
		}

		res := hardlink.FromFileInfo(path, info)
		if !res.OK() {
			stats.warnings++
			l.Warn().Err(res.Err).Str("path", path).Stringer("reason", res.Reason).Msg("mediaindex: no identity for file")
			return nil
		}

		ids.Add(res.ID)
		stats.files++
		return nil
	})

	return ids, stats, err
}
