// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package reconcile runs one pass of the pipeline: index the media roots and fetch the
// torrent inventory side by side, partition the torrents against the index, then hand
// the matched set to the removal executor.
//
// A run moves through these stages:
//
//	idle -> indexed -> fetched -> matched -> empty
//	                                      -> awaiting-confirm -> aborted
//	                                                          -> removing -> done
//
// Without confirmation the awaiting-confirm stage is skipped. A dry run stops at matched.
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/internal/inventory"
	"github.com/autobrr/seedsweep/internal/matcher"
	"github.com/autobrr/seedsweep/internal/mediaindex"
	"github.com/autobrr/seedsweep/internal/removal"
	"github.com/autobrr/seedsweep/pkg/hardlink"
)

var ErrNoPrompt = errors.New("confirmation is enabled but no prompt is available")

// Client is the download client capability the pipeline needs.
type Client interface {
	inventory.TorrentLister
	removal.TorrentRemover
}

type Options struct {
	MediaDirs    []string
	DownloadDirs []string
	MinSeedTime  time.Duration
	MatchPolicy  domain.MatchPolicy

	ResolveWorkers int

	Confirm            bool
	RemovalConcurrency int
	RemovalRetries     int
	RetryDelay         time.Duration

	// DryRun stops after matching. Nothing is prompted or removed.
	DryRun bool
}

func OptionsFromConfig(cfg *domain.Config) Options {
	return Options{
		MediaDirs:          cfg.MediaDirs,
		DownloadDirs:       cfg.DownloadDirs,
		MinSeedTime:        cfg.MinSeedTime,
		MatchPolicy:        cfg.MatchPolicy,
		ResolveWorkers:     cfg.ResolveWorkers,
		Confirm:            cfg.Confirm,
		RemovalConcurrency: cfg.RemovalConcurrency,
		RemovalRetries:     cfg.RemovalRetries,
	}
}

// Run executes a single pass. The returned report is never nil and reflects how far the
// run got, even when an error is returned. Errors are limited to startup problems, a
// failed inventory query, cancellation and a failed prompt; declining the prompt or
// having nothing to remove are normal completions.
func Run(ctx context.Context, client Client, opts Options, prompt removal.Confirmer) (*Report, error) {
	r := newReport(opts)
	l := log.With().Str("run", r.RunID).Logger()
	defer r.finish()

	if opts.Confirm && !opts.DryRun && prompt == nil {
		return r, ErrNoPrompt
	}

	checkFilesystems(l, opts.MediaDirs, opts.DownloadDirs)

	var (
		index   hardlink.Set
		records []domain.TorrentRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, stats, err := mediaindex.Build(gctx, opts.MediaDirs)
		index, r.Index = set, stats
		return err
	})
	g.Go(func() error {
		recs, stats, err := inventory.Fetch(gctx, client, inventory.Options{
			DownloadDirs: opts.DownloadDirs,
			MinSeedTime:  opts.MinSeedTime,
			Workers:      opts.ResolveWorkers,
		})
		records, r.Inventory = recs, stats
		return err
	})
	if err := g.Wait(); err != nil {
		return r, err
	}
	r.transition(l, StageIndexed)
	r.transition(l, StageFetched)

	r.Matched, r.Unmatched = matcher.Partition(index, records, r.Policy)
	r.transition(l, StageMatched)

	l.Info().
		Int("matched", len(r.Matched)).
		Int("unmatched", len(r.Unmatched)).
		Str("policy", string(r.Policy)).
		Msg("reconcile: partitioned torrents")

	for _, t := range r.Matched {
		l.Debug().Str("torrent", t.Name).Str("id", t.ID).Msg("reconcile: candidate")
	}

	if opts.DryRun {
		l.Info().Int("candidates", len(r.Matched)).Msg("reconcile: dry run, nothing removed")
		return r, nil
	}

	var staged removal.Confirmer
	if opts.Confirm {
		staged = &stagedPrompt{report: r, logger: l, inner: prompt}
	} else if len(r.Matched) > 0 {
		r.transition(l, StageRemoving)
	}

	res, err := removal.Execute(ctx, client, r.Matched, removal.Options{
		Confirm:     opts.Confirm,
		Concurrency: opts.RemovalConcurrency,
		Retries:     opts.RemovalRetries,
		RetryDelay:  opts.RetryDelay,
	}, staged)
	r.Outcomes = res.Outcomes

	switch res.State {
	case removal.StateEmpty:
		r.transition(l, StageEmpty)
	case removal.StateAborted:
		r.transition(l, StageAborted)
	case removal.StateDone:
		r.transition(l, StageDone)
	}

	if err != nil {
		return r, errors.Wrap(err, "confirmation failed")
	}
	return r, nil
}

// stagedPrompt records the confirmation stages around the operator prompt.
type stagedPrompt struct {
	report *Report
	logger zerolog.Logger
	inner  removal.Confirmer
}

func (p *stagedPrompt) Confirm(names []string) (bool, error) {
	p.report.transition(p.logger, StageAwaitingConfirm)

	ok, err := p.inner.Confirm(names)
	if err == nil && ok {
		p.report.transition(p.logger, StageRemoving)
	}
	return ok, err
}

func newReport(opts Options) *Report {
	policy := opts.MatchPolicy
	if policy == "" {
		policy = domain.MatchAny
	}

	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Stage:     StageIdle,
		Stages:    []Stage{StageIdle},
		Policy:    policy,
		DryRun:    opts.DryRun,
	}
}
