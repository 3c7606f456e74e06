// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/seedsweep/internal/history"
)

func RunHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent removals from the history ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			if cfg.HistoryPath == "" {
				return errors.New("historyPath is not configured")
			}

			store, err := history.Open(cmd.Context(), cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			removals, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(removals) == 0 {
				cmd.Println("No removals recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REMOVED\tTORRENT\tID\tRESULT")
			for _, r := range removals {
				result := "ok"
				if !r.Success {
					result = "failed: " + r.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.RemovedAt.Local().Format(time.DateTime), r.Name, r.TorrentID, result)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of removals to show")

	return cmd
}
