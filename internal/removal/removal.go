// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package removal removes matched torrents from the download client, keeping their data.
package removal

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/seedsweep/internal/domain"
)

const defaultRetryDelay = 2 * time.Second

// TorrentRemover is the command half of the download client capability.
type TorrentRemover interface {
	RemoveTorrent(ctx context.Context, id string, deleteData bool) error
}

// Confirmer asks the operator whether the listed torrents may be removed.
type Confirmer interface {
	Confirm(names []string) (bool, error)
}

// State is the terminal state of a removal phase.
type State string

const (
	StateEmpty   State = "empty"
	StateAborted State = "aborted"
	StateDone    State = "done"
)

type Options struct {
	// Confirm gates the whole phase behind a single operator answer.
	Confirm bool
	// Concurrency bounds in-flight remove commands; 1 serializes them.
	Concurrency int
	// Retries is the number of extra attempts per failed command.
	Retries    int
	RetryDelay time.Duration
}

type Result struct {
	State    State
	Outcomes []domain.RemovalOutcome
}

func (r Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Success() {
			n++
		}
	}
	return n
}

// Execute removes every matched torrent. Nothing is sent to the client when matched is
// empty or the operator declines. Individual failures are reported in the outcomes and
// never stop the remaining removals; the returned error is reserved for a failed prompt.
func Execute(ctx context.Context, client TorrentRemover, matched []domain.TorrentRecord, opts Options, prompt Confirmer) (Result, error) {
	if len(matched) == 0 {
		log.Info().Msg("removal: no candidates")
		return Result{State: StateEmpty}, nil
	}

	if opts.Confirm {
		names := make([]string, 0, len(matched))
		for _, t := range matched {
			names = append(names, t.Name)
		}

		ok, err := prompt.Confirm(names)
		if err != nil {
			return Result{State: StateAborted}, err
		}
		if !ok {
			log.Info().Int("candidates", len(matched)).Msg("removal: aborted by operator")
			return Result{State: StateAborted}, nil
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]domain.RemovalOutcome, len(matched))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, t := range matched {
		g.Go(func() error {
			outcomes[i] = removeOne(ctx, client, t, opts)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{State: StateDone, Outcomes: outcomes}
	log.Info().
		Int("removed", len(outcomes)-res.Failed()).
		Int("failed", res.Failed()).
		Msg("removal: finished")

	return res, nil
}

func removeOne(ctx context.Context, client TorrentRemover, t domain.TorrentRecord, opts Options) domain.RemovalOutcome {
	outcome := domain.RemovalOutcome{ID: t.ID, Name: t.Name}

	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	outcome.Err = retry.Do(
		func() error {
			outcome.Attempts++
			return client.RemoveTorrent(ctx, t.ID, false)
		},
		retry.Attempts(uint(opts.Retries)+1), //nolint:gosec // validated non-negative
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	if outcome.Err != nil {
		log.Warn().Err(outcome.Err).
			Str("torrent", t.Name).
			Str("id", t.ID).
			Int("attempts", outcome.Attempts).
			Msg("removal: failed to remove torrent")
		return outcome
	}

	log.Info().Str("torrent", t.Name).Str("id", t.ID).Msg("removal: removed torrent (files kept)")
	return outcome
}
