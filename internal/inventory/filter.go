// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package inventory

import (
	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/pkg/pathcmp"
)

// Rejection names the first eligibility rule a torrent failed.
type Rejection string

const (
	Accepted         Rejection = ""
	RejectError      Rejection = "error"
	RejectRoot       Rejection = "download-root"
	RejectSeedTime   Rejection = "seed-time"
	RejectIdentifier Rejection = "no-identifier"
)

// Filter decides which torrents are considered for matching at all.
type Filter struct {
	roots          *pathcmp.Set
	minSeedSeconds int64
}

func NewFilter(downloadDirs []string, minSeedSeconds int64) *Filter {
	return &Filter{
		roots:          pathcmp.NewSet(downloadDirs...),
		minSeedSeconds: minSeedSeconds,
	}
}

// Check returns Accepted only when the torrent has no error, lives directly in one
// of the configured download roots and has seeded for at least the minimum time.
func (f *Filter) Check(t domain.Torrent) Rejection {
	if t.ErrorString != "" {
		return RejectError
	}
	if !f.roots.Contains(t.DownloadDir) {
		return RejectRoot
	}
	if t.SecondsSeeding < f.minSeedSeconds {
		return RejectSeedTime
	}
	if t.ID == "" {
		return RejectIdentifier
	}
	return Accepted
}
