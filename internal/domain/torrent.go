// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"fmt"
	"strings"

	"github.com/autobrr/seedsweep/pkg/hardlink"
)

// Torrent is a client-neutral snapshot of one torrent as reported by the download client.
type Torrent struct {
	// ID is opaque and only ever handed back to the client for removal.
	ID             string
	Name           string
	DownloadDir    string
	Files          []string // paths relative to DownloadDir
	ErrorString    string
	SecondsSeeding int64
}

// TorrentRecord is an eligible torrent with its files resolved to identities.
type TorrentRecord struct {
	ID             string
	Name           string
	DownloadDir    string
	SecondsSeeding int64

	// FileCount is the number of files the client reported; FileIDs may be shorter
	// when some of them could not be resolved.
	FileCount int
	FileIDs   []hardlink.FileID
	Skipped   []hardlink.Resolution
}

// FullyResolved reports whether every reported file produced an identity.
func (r TorrentRecord) FullyResolved() bool {
	return r.FileCount > 0 && len(r.FileIDs) == r.FileCount
}

// MatchPolicy decides how much of a torrent must be present in the media library.
type MatchPolicy string

const (
	// MatchAny treats a single shared file as proof the torrent was imported.
	MatchAny MatchPolicy = "any"
	// MatchAll requires every file of the torrent to be resolved and present.
	MatchAll MatchPolicy = "all"
)

func (p MatchPolicy) Valid() bool {
	return p == MatchAny || p == MatchAll
}

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	p := MatchPolicy(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid match policy %q (want %s or %s)", s, MatchAny, MatchAll)
	}
	return p, nil
}

// RemovalOutcome is the result of one remove command.
type RemovalOutcome struct {
	ID       string
	Name     string
	Attempts int
	Err      error
}

func (o RemovalOutcome) Success() bool {
	return o.Err == nil
}
