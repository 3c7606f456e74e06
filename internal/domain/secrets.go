// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import "net/url"

const RedactedStr = "<redacted>"

// RedactString hides a secret while keeping whether it was set visible.
func RedactString(s string) string {
	if len(s) == 0 {
		return ""
	}
	return RedactedStr
}

// RedactURL strips the password from any userinfo embedded in raw.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return RedactString(raw)
	}
	return u.Redacted()
}
