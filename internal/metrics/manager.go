// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: MIT

package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/seedsweep/internal/inventory"
	"github.com/autobrr/seedsweep/internal/metrics/collector"
	"github.com/autobrr/seedsweep/internal/reconcile"
)

var rejectionReasons = []inventory.Rejection{
	inventory.RejectError,
	inventory.RejectRoot,
	inventory.RejectSeedTime,
	inventory.RejectIdentifier,
}

type Manager struct {
	registry     *prometheus.Registry
	runCollector *collector.RunCollector
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	return &Manager{
		registry:     registry,
		runCollector: collector.NewRunCollector(registry),
	}
}

func (m *Manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Observe records the results of a finished run.
func (m *Manager) Observe(r *reconcile.Report) {
	c := m.runCollector

	c.RunsTotal.WithLabelValues(string(r.Stage)).Inc()
	c.LastRunTimestamp.Set(float64(r.StartedAt.Unix()))
	c.LastRunDuration.Set(r.Took.Seconds())

	c.MediaIdentities.Set(float64(r.Index.Unique))
	c.MediaWarnings.Set(float64(r.Index.Warnings))

	c.TorrentsTotal.Set(float64(r.Inventory.Total))
	c.TorrentsEligible.Set(float64(r.Inventory.Eligible))
	for _, reason := range rejectionReasons {
		c.TorrentsRejected.WithLabelValues(string(reason)).Set(float64(r.Inventory.Rejected[reason]))
	}
	c.TorrentsMatched.Set(float64(len(r.Matched)))
	c.TorrentsUnmatched.Set(float64(len(r.Unmatched)))
	c.SkippedFiles.Set(float64(r.Inventory.SkippedFiles))

	c.RemovalsTotal.WithLabelValues("success").Add(float64(r.Removed()))
	c.RemovalsTotal.WithLabelValues("failure").Add(float64(r.Failed()))
}

// WriteTextfile writes the registry in the node_exporter textfile format. The file
// is replaced atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	log.Debug().Str("path", path).Msg("metrics: textfile written")
	return nil
}
