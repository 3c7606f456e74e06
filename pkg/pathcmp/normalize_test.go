// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package pathcmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/data/torrents/", want: "/data/torrents"},
		{in: "/data//torrents/./tv", want: "/data/torrents/tv"},
		{in: "/data/torrents/../media", want: "/data/media"},
		{in: "/", want: "/"},
		{in: `C:\Downloads\complete\`, want: "C:/Downloads/complete"},
		{in: "C:/", want: "C:/"},
		{in: "C:", want: "C:"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "input %q", tt.in)
	}
}

func TestSet_ContainsExactMembersOnly(t *testing.T) {
	s := NewSet("/data/torrents/tv/", "/data/torrents/movies", "")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("/data/torrents/tv"))
	assert.True(t, s.Contains("/data/torrents/movies/"))
	assert.True(t, s.Contains("/data/torrents/./tv"))
	assert.False(t, s.Contains("/data/torrents"))
	assert.False(t, s.Contains("/data/torrents/tv/season1"))
	assert.False(t, s.Contains(""))

	var nilSet *Set
	assert.False(t, nilSet.Contains("/data"))
}
