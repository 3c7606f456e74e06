// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autobrr/seedsweep/internal/confirm"
	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/internal/downloadclient"
	"github.com/autobrr/seedsweep/internal/history"
	"github.com/autobrr/seedsweep/internal/metrics"
	"github.com/autobrr/seedsweep/internal/reconcile"
	"github.com/autobrr/seedsweep/internal/removal"
)

func RunSweepCommand() *cobra.Command {
	var (
		dryRun      bool
		yes         bool
		matchPolicy string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Index the media library and remove matched torrents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			if yes {
				cfg.Confirm = false
			}
			if matchPolicy != "" {
				policy, err := domain.ParseMatchPolicy(matchPolicy)
				if err != nil {
					return err
				}
				cfg.MatchPolicy = policy
			}

			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			ctx := cmd.Context()

			client, err := downloadclient.New(ctx, cfg)
			if err != nil {
				return err
			}

			opts := reconcile.OptionsFromConfig(cfg)
			opts.DryRun = dryRun

			var prompt removal.Confirmer
			if opts.Confirm && !opts.DryRun {
				if !confirm.IsInteractive(os.Stdin) {
					log.Warn().Msg("confirmation is enabled but stdin is not a terminal, reading the answer from stdin")
				}
				prompt = confirm.New(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			report, runErr := reconcile.Run(ctx, client, opts, prompt)
			if runErr == nil {
				recordRun(cmd, cfg, report)
			}

			if err := report.WriteSummary(cmd.OutOrStdout()); err != nil {
				log.Warn().Err(err).Msg("could not write summary")
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match only, never prompt or remove")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&matchPolicy, "match-policy", "", "Override the match policy (any, all)")

	return cmd
}

// recordRun writes the optional history ledger and metrics textfile. Failures are
// logged and never fail the run.
func recordRun(cmd *cobra.Command, cfg *domain.Config, report *reconcile.Report) {
	if cfg.HistoryPath != "" {
		store, err := history.Open(cmd.Context(), cfg.HistoryPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("could not open history ledger")
		} else {
			if err := store.Record(cmd.Context(), cfg.Client, report); err != nil {
				log.Warn().Err(err).Msg("could not record run history")
			}
			store.Close()
		}
	}

	if cfg.MetricsTextfile != "" {
		m := metrics.NewManager()
		m.Observe(report)
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("could not write metrics")
		}
	}
}
