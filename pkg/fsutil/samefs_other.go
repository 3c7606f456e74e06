// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !unix

package fsutil

import (
	"path/filepath"
	"strings"
)

// sameFilesystem falls back to comparing volume names.
func sameFilesystem(path1, path2 string) (bool, error) {
	abs1, err := filepath.Abs(path1)
	if err != nil {
		return false, err
	}
	abs2, err := filepath.Abs(path2)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(filepath.VolumeName(abs1), filepath.VolumeName(abs2)), nil
}
