// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/autobrr/seedsweep/pkg/fsutil"
)

// checkFilesystems warns about download roots that share no filesystem with any media
// root. Hard links cannot cross filesystems, so torrents there can never match.
func checkFilesystems(l zerolog.Logger, mediaDirs, downloadDirs []string) {
	for _, dl := range downloadDirs {
		shared := false
		for _, media := range mediaDirs {
			same, err := fsutil.SameFilesystem(dl, media)
			if err != nil {
				l.Debug().Err(err).Str("downloadDir", dl).Str("mediaDir", media).Msg("reconcile: filesystem check failed")
				shared = true
				break
			}
			if same {
				shared = true
				break
			}
		}

		if !shared {
			l.Warn().
				Str("downloadDir", dl).
				Strs("mediaDirs", mediaDirs).
				Msg("reconcile: download root is on a different filesystem than every media root, its torrents cannot match")
		}
	}
}
