// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package downloadclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autobrr/seedsweep/internal/domain"
)

func TestNew_RejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &domain.Config{Client: "deluge", URL: "http://127.0.0.1:8112"})
	require.Error(t, err)
}

func TestNew_RejectsBadEndpoint(t *testing.T) {
	_, err := New(context.Background(), &domain.Config{Client: domain.ClientTransmission, URL: "not a url"})
	require.Error(t, err)
}
