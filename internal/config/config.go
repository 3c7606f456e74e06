// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/seedsweep/internal/domain"
)

const (
	envPrefix = "SEEDSWEEP__"

	// legacyPasswordEnv is still honoured when SEEDSWEEP__PASSWORD is unset.
	legacyPasswordEnv = "TPASS"
)

var envFiles = []string{".env", ".env.local"}

type AppConfig struct {
	Config     *domain.Config
	viper      *viper.Viper
	configPath string
}

// New loads configuration from configDirOrPath, the default search paths and the
// environment, in increasing order of precedence. A missing config file is not an
// error since every key can be supplied through SEEDSWEEP__ variables.
func New(configDirOrPath string) (*AppConfig, error) {
	c := &AppConfig{
		viper:  viper.New(),
		Config: &domain.Config{},
	}

	c.defaults()
	c.loadEnvFiles(configDirOrPath)

	if err := c.load(configDirOrPath); err != nil {
		return nil, err
	}
	if err := c.bindEnv(); err != nil {
		return nil, err
	}

	if err := c.viper.Unmarshal(c.Config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	c.Config.Password = os.Getenv(envPrefix + "PASSWORD")
	if c.Config.Password == "" {
		c.Config.Password = os.Getenv(legacyPasswordEnv)
	}

	return c, nil
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (c *AppConfig) ConfigFileUsed() string {
	return c.configPath
}

// Defaults returns a config populated with the built-in defaults.
func Defaults() domain.Config {
	return domain.Config{
		Client:             domain.ClientTransmission,
		URL:                "http://127.0.0.1:9091/transmission/rpc",
		MinSeedTime:        7 * 24 * time.Hour,
		Confirm:            true,
		MatchPolicy:        domain.MatchAny,
		ResolveWorkers:     8,
		RemovalConcurrency: 1,
		RemovalRetries:     0,
		LogLevel:           "INFO",
		LogMaxSize:         50,
		LogMaxBackups:      3,
	}
}

func (c *AppConfig) defaults() {
	d := Defaults()
	c.viper.SetDefault("client", d.Client)
	c.viper.SetDefault("url", d.URL)
	c.viper.SetDefault("username", "")
	c.viper.SetDefault("mediaDirs", []string{})
	c.viper.SetDefault("downloadDirs", []string{})
	c.viper.SetDefault("minSeedTime", d.MinSeedTime.String())
	c.viper.SetDefault("confirm", d.Confirm)
	c.viper.SetDefault("matchPolicy", string(d.MatchPolicy))
	c.viper.SetDefault("resolveWorkers", d.ResolveWorkers)
	c.viper.SetDefault("removalConcurrency", d.RemovalConcurrency)
	c.viper.SetDefault("removalRetries", d.RemovalRetries)
	c.viper.SetDefault("historyPath", "")
	c.viper.SetDefault("metricsTextfile", "")
	c.viper.SetDefault("logLevel", d.LogLevel)
	c.viper.SetDefault("logPath", "")
	c.viper.SetDefault("logMaxSize", d.LogMaxSize)
	c.viper.SetDefault("logMaxBackups", d.LogMaxBackups)
}

// loadEnvFiles reads .env files next to the config and in the working directory.
// Variables that are already set win.
func (c *AppConfig) loadEnvFiles(configDirOrPath string) {
	dirs := []string{"."}
	if configDirOrPath != "" {
		dir := configDirOrPath
		if !isDir(dir) {
			dir = filepath.Dir(dir)
		}
		dirs = append([]string{dir}, dirs...)
	}

	for _, dir := range dirs {
		for _, name := range envFiles {
			path := filepath.Join(dir, name)
			if err := godotenv.Load(path); err == nil {
				log.Debug().Str("path", path).Msg("loaded env file")
			}
		}
	}
}

func (c *AppConfig) load(configDirOrPath string) error {
	switch {
	case configDirOrPath != "" && !isDir(configDirOrPath):
		c.viper.SetConfigFile(configDirOrPath)
		if ext := strings.TrimPrefix(filepath.Ext(configDirOrPath), "."); ext == "" {
			c.viper.SetConfigType("toml")
		}
	default:
		c.viper.SetConfigName("config")
		if configDirOrPath != "" {
			c.viper.AddConfigPath(configDirOrPath)
		}
		c.viper.AddConfigPath(".")
		c.viper.AddConfigPath(getDefaultConfigDir())
		c.viper.AddConfigPath("/etc/seedsweep")
	}

	if err := c.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug().Msg("no config file found, using defaults and environment")
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	c.configPath = c.viper.ConfigFileUsed()
	log.Debug().Str("path", c.configPath).Msg("loaded config file")
	return nil
}

// bindEnv maps every known key to SEEDSWEEP__UPPER_SNAKE.
func (c *AppConfig) bindEnv() error {
	for _, key := range c.viper.AllKeys() {
		if err := c.viper.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// WriteDefaultConfig writes an example config to path. An existing file is only
// replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	d := Defaults()
	d.Username = "admin"
	d.MediaDirs = []string{"/data/media/movies", "/data/media/tv"}
	d.DownloadDirs = []string{"/data/torrents/complete"}

	var buf bytes.Buffer
	buf.WriteString("# seedsweep config\n# The password is read from SEEDSWEEP__PASSWORD (or TPASS).\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath is where `config generate` writes when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(getDefaultConfigDir(), "config.yaml")
}

func getDefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		// Docker images mount /config directly.
		if xdg == "/config" {
			return xdg
		}
		return filepath.Join(xdg, "seedsweep")
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "seedsweep")
}

// envName converts a config key such as "mediadirs" or "minSeedTime" to its
// environment variable. Viper lowercases keys, so known keys are looked up first.
func envName(key string) string {
	if camel, ok := knownKeys[strings.ToLower(key)]; ok {
		key = camel
	}

	var b strings.Builder
	b.WriteString(envPrefix)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

var knownKeys = func() map[string]string {
	keys := []string{
		"client", "url", "username", "mediaDirs", "downloadDirs", "minSeedTime",
		"confirm", "matchPolicy", "resolveWorkers", "removalConcurrency",
		"removalRetries", "historyPath", "metricsTextfile", "logLevel", "logPath",
		"logMaxSize", "logMaxBackups",
	}
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		m[strings.ToLower(k)] = k
	}
	return m
}()

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
