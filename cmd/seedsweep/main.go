// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autobrr/seedsweep/internal/buildinfo"
	"github.com/autobrr/seedsweep/internal/config"
	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seedsweep",
		Short: "Remove seeding torrents that are already hard linked into the media library",
		Long: `seedsweep compares the files of every seeding torrent with the files in your media
library by device and inode. Torrents whose payload is hard linked into the library are
removed from the download client. The data on disk is never deleted.`,
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("config", "", "config file or directory (default: search ., $XDG_CONFIG_HOME/seedsweep, /etc/seedsweep)")
	cmd.PersistentFlags().String("log-level", "", "log level override (trace, debug, info, warn, error)")

	cmd.AddCommand(RunSweepCommand())
	cmd.AddCommand(RunConfigCommand())
	cmd.AddCommand(RunHistoryCommand())
	cmd.AddCommand(RunVersionCommand())

	return cmd
}

// loadConfig reads the configuration and sets up logging. The returned closer flushes
// the log file.
func loadConfig(cmd *cobra.Command) (*domain.Config, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")

	app, err := config.New(path)
	if err != nil {
		return nil, nil, err
	}
	cfg := app.Config
	cfg.Version = buildinfo.Version

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	closer, err := logger.Setup(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}
