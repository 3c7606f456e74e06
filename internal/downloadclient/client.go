// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package downloadclient selects the download client backend from configuration.
package downloadclient

import (
	"context"
	"fmt"

	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/internal/qbittorrent"
	"github.com/autobrr/seedsweep/internal/transmission"
)

// Client is the capability the reconciliation pipeline needs from a download client:
// one bulk torrent query and a remove-by-id command.
type Client interface {
	Torrents(ctx context.Context) ([]domain.Torrent, error)
	RemoveTorrent(ctx context.Context, id string, deleteData bool) error
}

var (
	_ Client = (*transmission.Client)(nil)
	_ Client = (*qbittorrent.Client)(nil)
)

// New connects to the configured backend. cfg must already be validated.
func New(ctx context.Context, cfg *domain.Config) (Client, error) {
	endpoint, err := cfg.ParseURL()
	if err != nil {
		return nil, err
	}

	switch cfg.Client {
	case domain.ClientTransmission:
		c, err := transmission.NewClient(ctx, endpoint, cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		return c, nil
	case domain.ClientQBittorrent:
		c, err := qbittorrent.NewClient(ctx, endpoint.String(), cfg.Username, cfg.Password)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported client %q", cfg.Client)
	}
}
