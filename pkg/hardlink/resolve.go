// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package hardlink

import (
	"errors"
	"io/fs"
	"os"
)

// SkipReason explains why a path produced no FileID.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipMissing
	SkipPermission
	SkipNotRegular
	SkipOutsideRoot
	SkipNoIdentity
	SkipError
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipMissing:
		return "missing"
	case SkipPermission:
		return "permission-denied"
	case SkipNotRegular:
		return "not-regular"
	case SkipOutsideRoot:
		return "outside-root"
	case SkipNoIdentity:
		return "no-identity"
	default:
		return "error"
	}
}

// Resolution is the outcome of inspecting a single path: either an ID or a skip reason.
type Resolution struct {
	Path   string
	ID     FileID
	Reason SkipReason
	Err    error
}

// OK reports whether the path resolved to a FileID.
func (r Resolution) OK() bool {
	return r.Reason == SkipNone
}

// Resolve inspects path without following symlinks and returns its FileID when the
// path is a regular file.
func Resolve(path string) Resolution {
	fi, err := os.Lstat(path)
	if err != nil {
		return Resolution{Path: path, Reason: reasonFromError(err), Err: err}
	}
	return FromFileInfo(path, fi)
}

// FromFileInfo derives a Resolution from already-fetched (lstat) metadata.
func FromFileInfo(path string, fi fs.FileInfo) Resolution {
	if !fi.Mode().IsRegular() {
		return Resolution{Path: path, Reason: SkipNotRegular}
	}

	id, _, err := GetFileID(fi, path)
	if err != nil {
		return Resolution{Path: path, Reason: reasonFromError(err), Err: err}
	}
	if id.IsZero() {
		return Resolution{Path: path, Reason: SkipNoIdentity}
	}

	return Resolution{Path: path, ID: id}
}

func reasonFromError(err error) SkipReason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return SkipMissing
	case errors.Is(err, fs.ErrPermission):
		return SkipPermission
	default:
		return SkipError
	}
}
