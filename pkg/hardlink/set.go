// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package hardlink

import "sort"

// Set is an unordered, deduplicated collection of FileIDs.
type Set map[FileID]struct{}

func NewSet(ids ...FileID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s Set) Add(id FileID) {
	s[id] = struct{}{}
}

func (s Set) Has(id FileID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Merge copies every FileID from other into s.
func (s Set) Merge(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the members ordered with FileID.Less.
func (s Set) Sorted() []FileID {
	ids := make([]FileID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
	return ids
}
