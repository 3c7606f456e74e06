// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build unix

package fsutil

import (
	"fmt"
	"syscall"
)

func sameFilesystem(path1, path2 string) (bool, error) {
	var st1, st2 syscall.Stat_t
	if err := syscall.Stat(path1, &st1); err != nil {
		return false, fmt.Errorf("stat %s: %w", path1, err)
	}
	if err := syscall.Stat(path2, &st2); err != nil {
		return false, fmt.Errorf("stat %s: %w", path2, err)
	}
	return st1.Dev == st2.Dev, nil
}
