// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package matcher splits torrents into those already present in the media library
// and those that are not.
//
// Two policies are available. MatchAny (the default) marks a torrent as archived as
// soon as one of its files shares an identity with the library; this assumes library
// imports are all-or-nothing per torrent, and it will also retire a season pack whose
// import only partly finished. MatchAll only retires a torrent when every reported
// file was resolved and is present in the library, which is stricter but keeps
// torrents with extras (samples, nfo files) that the library manager never imports.
package matcher

import (
	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/pkg/hardlink"
)

// Index is the read-only view of the media library the matcher needs.
type Index interface {
	Has(id hardlink.FileID) bool
}

var _ Index = hardlink.Set(nil)

// Partition returns the matched and unmatched torrents, each in input order.
// It performs no I/O and never modifies its inputs.
func Partition(index Index, torrents []domain.TorrentRecord, policy domain.MatchPolicy) (matched, unmatched []domain.TorrentRecord) {
	for _, t := range torrents {
		if Matches(index, t, policy) {
			matched = append(matched, t)
		} else {
			unmatched = append(unmatched, t)
		}
	}
	return matched, unmatched
}

// Matches reports whether t counts as archived under policy. A torrent without any
// resolved file never matches.
func Matches(index Index, t domain.TorrentRecord, policy domain.MatchPolicy) bool {
	if len(t.FileIDs) == 0 {
		return false
	}

	if policy == domain.MatchAll {
		if !t.FullyResolved() {
			return false
		}
		for _, id := range t.FileIDs {
			if !index.Has(id) {
				return false
			}
		}
		return true
	}

	for _, id := range t.FileIDs {
		if index.Has(id) {
			return true
		}
	}
	return false
}
