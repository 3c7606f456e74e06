// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !windows

package hardlink

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// FileID uniquely identifies a physical file on disk.
// On Unix, this is the (device, inode) pair.
// This type is comparable and can be used as a map key without allocations.
type FileID struct {
	Dev uint64
	Ino uint64
}

// IsZero returns true if the FileID is the zero value (uninitialized).
func (f FileID) IsZero() bool {
	return f.Dev == 0 && f.Ino == 0
}

func (f FileID) String() string {
	return fmt.Sprintf("%d:%d", f.Dev, f.Ino)
}

// GetFileID returns the FileID and link count for a file without allocations.
func GetFileID(fi os.FileInfo, _ string) (FileID, uint64, error) {
	sys, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return FileID{}, 0, errors.New("failed to get syscall.Stat_t")
	}
	return FileID{Dev: uint64(sys.Dev), Ino: sys.Ino}, uint64(sys.Nlink), nil //nolint:gosec,unconvert // sys.Dev width differs per platform
}

// Less orders FileIDs by device, then inode.
func (f FileID) Less(other FileID) bool {
	if f.Dev != other.Dev {
		return f.Dev < other.Dev
	}
	return f.Ino < other.Ino
}
