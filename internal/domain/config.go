// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ClientTransmission = "transmission"
	ClientQBittorrent  = "qbittorrent"
)

var (
	ErrMissingPassword = errors.New("password is not set (export SEEDSWEEP__PASSWORD)")
	ErrMissingUsername = errors.New("username is required")
	ErrNotAbsolute     = errors.New("path must be absolute")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrNoDirectories   = errors.New("at least one directory is required")
)

// Config represents the application configuration
type Config struct {
	Version string `toml:"-" mapstructure:"-" yaml:"-"`

	Client   string `toml:"client" mapstructure:"client" yaml:"client"`
	URL      string `toml:"url" mapstructure:"url" yaml:"url"`
	Username string `toml:"username" mapstructure:"username" yaml:"username"`
	// Password is only ever read from the environment.
	Password string `toml:"-" mapstructure:"-" yaml:"-"`

	MediaDirs    []string      `toml:"mediaDirs" mapstructure:"mediaDirs" yaml:"mediaDirs"`
	DownloadDirs []string      `toml:"downloadDirs" mapstructure:"downloadDirs" yaml:"downloadDirs"`
	MinSeedTime  time.Duration `toml:"minSeedTime" mapstructure:"minSeedTime" yaml:"minSeedTime"`
	Confirm      bool          `toml:"confirm" mapstructure:"confirm" yaml:"confirm"`
	MatchPolicy  MatchPolicy   `toml:"matchPolicy" mapstructure:"matchPolicy" yaml:"matchPolicy"`

	ResolveWorkers     int `toml:"resolveWorkers" mapstructure:"resolveWorkers" yaml:"resolveWorkers"`
	RemovalConcurrency int `toml:"removalConcurrency" mapstructure:"removalConcurrency" yaml:"removalConcurrency"`
	RemovalRetries     int `toml:"removalRetries" mapstructure:"removalRetries" yaml:"removalRetries"`

	HistoryPath     string `toml:"historyPath" mapstructure:"historyPath" yaml:"historyPath"`
	MetricsTextfile string `toml:"metricsTextfile" mapstructure:"metricsTextfile" yaml:"metricsTextfile"`

	LogLevel      string `toml:"logLevel" mapstructure:"logLevel" yaml:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath" yaml:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize" yaml:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups" yaml:"logMaxBackups"`
}

// Validate checks everything that must hold before the first RPC call is made.
// Directory entries are cleaned in place.
func (c *Config) Validate() error {
	switch c.Client {
	case ClientTransmission, ClientQBittorrent:
	default:
		return fmt.Errorf("unsupported client %q (want %s or %s)", c.Client, ClientTransmission, ClientQBittorrent)
	}

	if _, err := c.ParseURL(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Username) == "" {
		return ErrMissingUsername
	}
	if c.Password == "" {
		return ErrMissingPassword
	}

	var err error
	if c.MediaDirs, err = validateDirs("mediaDirs", c.MediaDirs); err != nil {
		return err
	}
	if c.DownloadDirs, err = validateDirs("downloadDirs", c.DownloadDirs); err != nil {
		return err
	}

	if c.MinSeedTime < 0 {
		return fmt.Errorf("minSeedTime must not be negative: %s", c.MinSeedTime)
	}
	if !c.MatchPolicy.Valid() {
		return fmt.Errorf("invalid matchPolicy %q (want %s or %s)", c.MatchPolicy, MatchAny, MatchAll)
	}
	if c.ResolveWorkers < 1 {
		return fmt.Errorf("resolveWorkers must be at least 1, got %d", c.ResolveWorkers)
	}
	if c.RemovalConcurrency < 1 {
		return fmt.Errorf("removalConcurrency must be at least 1, got %d", c.RemovalConcurrency)
	}
	if c.RemovalRetries < 0 {
		return fmt.Errorf("removalRetries must not be negative, got %d", c.RemovalRetries)
	}

	return nil
}

// ParseURL parses the RPC endpoint. Only absolute http(s) URLs are accepted.
func (c *Config) ParseURL() (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", c.URL)
	}
	return u, nil
}

func validateDirs(key string, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrNoDirectories)
	}

	cleaned := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if err := ValidateDir(dir); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cleaned = append(cleaned, filepath.Clean(dir))
	}
	return cleaned, nil
}

// ValidateDir returns an error unless dir is an absolute path to an existing directory.
func ValidateDir(dir string) error {
	if !filepath.IsAbs(dir) {
		return fmt.Errorf("%w: %q", ErrNotAbsolute, dir)
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %q: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %q", ErrNotDirectory, dir)
	}
	return nil
}
