// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build windows

package hardlink

import (
	"fmt"
	"os"
	"syscall"
)

// FILE_READ_ATTRIBUTES is the Windows access right for reading file attributes.
const fileReadAttributes = 0x0080

// FileID uniquely identifies a physical file on disk.
// On Windows, this is the (VolumeSerialNumber, FileIndexHigh, FileIndexLow) tuple.
type FileID struct {
	VolumeSerialNumber uint32
	FileIndexHigh      uint32
	FileIndexLow       uint32
}

// IsZero returns true if the FileID is the zero value (uninitialized).
func (f FileID) IsZero() bool {
	return f.VolumeSerialNumber == 0 && f.FileIndexHigh == 0 && f.FileIndexLow == 0
}

func (f FileID) String() string {
	return fmt.Sprintf("%d:%d:%d", f.VolumeSerialNumber, f.FileIndexHigh, f.FileIndexLow)
}

// GetFileID opens the path for attribute reads and returns its FileID and link count.
func GetFileID(fi os.FileInfo, path string) (FileID, uint64, error) {
	pathp, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return FileID{}, 0, err
	}
	attrs := uint32(syscall.FILE_FLAG_BACKUP_SEMANTICS)
	if fi.Mode()&os.ModeSymlink != 0 {
		attrs |= syscall.FILE_FLAG_OPEN_REPARSE_POINT
	}
	// Full sharing mode so files held open by the download client can still be inspected.
	shareMode := uint32(syscall.FILE_SHARE_READ | syscall.FILE_SHARE_WRITE | syscall.FILE_SHARE_DELETE)
	h, err := syscall.CreateFile(pathp, fileReadAttributes, shareMode, nil, syscall.OPEN_EXISTING, attrs, 0)
	if err != nil {
		return FileID{}, 0, err
	}
	defer syscall.CloseHandle(h)

	var info syscall.ByHandleFileInformation
	if err := syscall.GetFileInformationByHandle(h, &info); err != nil {
		return FileID{}, 0, err
	}

	return FileID{
		VolumeSerialNumber: info.VolumeSerialNumber,
		FileIndexHigh:      info.FileIndexHigh,
		FileIndexLow:       info.FileIndexLow,
	}, uint64(info.NumberOfLinks), nil
}

// Less orders FileIDs by volume, then file index.
func (f FileID) Less(other FileID) bool {
	if f.VolumeSerialNumber != other.VolumeSerialNumber {
		return f.VolumeSerialNumber < other.VolumeSerialNumber
	}
	if f.FileIndexHigh != other.FileIndexHigh {
		return f.FileIndexHigh < other.FileIndexHigh
	}
	return f.FileIndexLow < other.FileIndexLow
}
