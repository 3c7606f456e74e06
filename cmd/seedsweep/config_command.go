// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/autobrr/seedsweep/internal/config"
	"github.com/autobrr/seedsweep/internal/domain"
)

func RunConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(runConfigGenerateCommand())
	cmd.AddCommand(runConfigCheckCommand())
	return cmd
}

func runConfigGenerateCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write an example config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := config.WriteDefaultConfig(path, force); err != nil {
				return err
			}
			cmd.Printf("Wrote example config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination file (default: $XDG_CONFIG_HOME/seedsweep/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func runConfigCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := cfg.Validate(); err != nil {
				return err
			}

			cmd.Printf("client:             %s\n", cfg.Client)
			cmd.Printf("url:                %s\n", domain.RedactURL(cfg.URL))
			cmd.Printf("username:           %s\n", cfg.Username)
			cmd.Printf("password:           %s\n", domain.RedactString(cfg.Password))
			cmd.Printf("mediaDirs:          %s\n", strings.Join(cfg.MediaDirs, ", "))
			cmd.Printf("downloadDirs:       %s\n", strings.Join(cfg.DownloadDirs, ", "))
			cmd.Printf("minSeedTime:        %s\n", cfg.MinSeedTime)
			cmd.Printf("confirm:            %t\n", cfg.Confirm)
			cmd.Printf("matchPolicy:        %s\n", cfg.MatchPolicy)
			cmd.Printf("removalConcurrency: %d\n", cfg.RemovalConcurrency)
			cmd.Printf("removalRetries:     %d\n", cfg.RemovalRetries)
			cmd.Println("Configuration is valid.")
			return nil
		},
	}
}
