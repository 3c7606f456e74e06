// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package inventory

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/pkg/hardlink"
)

// resolveTorrent turns every file of t into a FileID. Files that cannot be resolved
// are recorded in Skipped and logged; they never fail the torrent.
func resolveTorrent(t domain.Torrent) domain.TorrentRecord {
	rec := domain.TorrentRecord{
		ID:             t.ID,
		Name:           t.Name,
		DownloadDir:    t.DownloadDir,
		SecondsSeeding: t.SecondsSeeding,
		FileCount:      len(t.Files),
		FileIDs:        make([]hardlink.FileID, 0, len(t.Files)),
	}

	for _, name := range t.Files {
		fullPath := filepath.Join(t.DownloadDir, filepath.FromSlash(name))

		var res hardlink.Resolution
		// Reject paths that escape the download root so torrent metadata can't make
		// us stat arbitrary locations.
		if !isPathInsideBase(t.DownloadDir, fullPath) {
			res = hardlink.Resolution{Path: fullPath, Reason: hardlink.SkipOutsideRoot}
		} else {
			res = hardlink.Resolve(fullPath)
		}

		if !res.OK() {
			rec.Skipped = append(rec.Skipped, res)
			log.Warn().
				Err(res.Err).
				Str("torrent", t.Name).
				Str("path", fullPath).
				Stringer("reason", res.Reason).
				Msg("inventory: skipping unresolvable file")
			continue
		}
		rec.FileIDs = append(rec.FileIDs, res.ID)
	}

	return rec
}

// isPathInsideBase checks if fullPath is safely contained within basePath.
func isPathInsideBase(basePath, fullPath string) bool {
	rel, err := filepath.Rel(filepath.Clean(basePath), filepath.Clean(fullPath))
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}
