// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package pathcmp normalizes paths reported by download clients so they can be
// compared against locally configured directories. Client paths may be
// forward- or back-slashed, so normalization uses path semantics (not filepath).
package pathcmp

import (
	"path"
	"strings"
)

// NormalizePath normalizes a file path for comparison by:
// - Converting backslashes to forward slashes
// - Removing trailing slashes (preserving Windows drive roots like C:/)
// - Cleaning the path (removing . and .. where possible)
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")

	// Handle Windows drive paths specially to preserve C:/ (path.Clean turns it into C:).
	if len(p) >= 2 && isDriveLetter(p[0]) && p[1] == ':' {
		drive := p[:2]
		rest := p[2:]

		if rest == "" {
			return drive
		}

		rest = path.Clean(rest)
		if rest == "/" || rest == "." {
			return drive + "/"
		}
		return drive + rest
	}

	p = path.Clean(p)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Set is a membership set of normalized directory paths. Matching is exact:
// a path nested below a member is not itself a member.
type Set struct {
	members map[string]struct{}
}

func NewSet(paths ...string) *Set {
	s := &Set{members: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		if n := NormalizePath(p); n != "" {
			s.members[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether p, once normalized, is one of the set's members.
func (s *Set) Contains(p string) bool {
	if s == nil {
		return false
	}
	n := NormalizePath(p)
	if n == "" {
		return false
	}
	_, ok := s.members[n]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}
