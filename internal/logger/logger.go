// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/autobrr/seedsweep/internal/domain"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel accepts the config spelling (INFO, DEBUG, ...) as well as zerolog's.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}

	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "warning":
		return zerolog.WarnLevel, nil
	default:
		lvl, err := zerolog.ParseLevel(l)
		if err != nil {
			return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", level)
		}
		return lvl, nil
	}
}

// Setup points the global logger at console and, when cfg.LogPath is set, a
// rotating log file. The returned closer flushes the file.
func Setup(cfg *domain.Config, console io.Writer) (io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime},
	}

	var closer io.Closer = nopCloser{}
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "could not create log directory")
		}

		file := &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
		}
		writers = append(writers, file)
		closer = file
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	return closer, nil
}
