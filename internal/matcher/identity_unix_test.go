// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

//go:build !windows

package matcher

import "github.com/autobrr/seedsweep/pkg/hardlink"

func setIdentity(id *hardlink.FileID, n int) {
	id.Dev = 1
	id.Ino = uint64(n)
}
