// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package history keeps a sqlite ledger of runs and the torrents they removed.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/autobrr/seedsweep/internal/reconcile"
)

const (
	defaultBusyTimeoutMillis = 5000
	connectionSetupTimeout   = 10 * time.Second
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	conn *sql.DB
}

// Removal is one ledger row.
type Removal struct {
	RunID     string
	TorrentID string
	Name      string
	Attempts  int
	Success   bool
	Error     string
	RemovedAt time.Time
}

// Open opens or creates the ledger at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database at %s: %w", path, err)
	}
	// a single connection keeps the pragmas in effect for every statement
	conn.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, connectionSetupTimeout)
	defer cancel()

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", defaultBusyTimeoutMillis),
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Debug().Str("path", path).Msg("history: ledger opened")
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range files {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE filename = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status for %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		log.Debug().Str("migration", name).Msg("history: applied migration")
	}

	return tx.Commit()
}

// Record stores the run summary and one row per removal outcome.
func (s *Store) Record(ctx context.Context, client string, r *reconcile.Report) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, took_ms, client, policy, dry_run, stage,
			media_identities, torrents_total, torrents_eligible, matched, unmatched)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.StartedAt.UTC(),
		r.Took.Milliseconds(),
		client,
		string(r.Policy),
		r.DryRun,
		string(r.Stage),
		r.Index.Unique,
		r.Inventory.Total,
		r.Inventory.Eligible,
		len(r.Matched),
		len(r.Unmatched),
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(r.Outcomes) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO removals (run_id, torrent_id, name, attempts, success, error, removed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare removal insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		for _, o := range r.Outcomes {
			var msg string
			if o.Err != nil {
				msg = o.Err.Error()
			}
			if _, err := stmt.ExecContext(ctx, r.RunID, o.ID, o.Name, o.Attempts, o.Success(), msg, now); err != nil {
				return fmt.Errorf("failed to insert removal of %s: %w", o.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns the latest removals, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Removal, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, torrent_id, name, attempts, success, error, removed_at
		FROM removals
		ORDER BY removed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query removals: %w", err)
	}
	defer rows.Close()

	var out []Removal
	for rows.Next() {
		var r Removal
		if err := rows.Scan(&r.RunID, &r.TorrentID, &r.Name, &r.Attempts, &r.Success, &r.Error, &r.RemovedAt); err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}
