// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package reconcile

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/autobrr/seedsweep/internal/domain"
	"github.com/autobrr/seedsweep/internal/inventory"
	"github.com/autobrr/seedsweep/internal/mediaindex"
)

type Stage string

const (
	StageIdle            Stage = "idle"
	StageIndexed         Stage = "indexed"
	StageFetched         Stage = "fetched"
	StageMatched         Stage = "matched"
	StageEmpty           Stage = "empty"
	StageAwaitingConfirm Stage = "awaiting-confirm"
	StageAborted         Stage = "aborted"
	StageRemoving        Stage = "removing"
	StageDone            Stage = "done"
)

// Terminal reports whether no further stage can follow.
func (s Stage) Terminal() bool {
	switch s {
	case StageEmpty, StageAborted, StageDone:
		return true
	default:
		return false
	}
}

// Report is the outcome of one run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Took      time.Duration

	Stage  Stage
	Stages []Stage

	Policy domain.MatchPolicy
	DryRun bool

	Index     mediaindex.Stats
	Inventory inventory.Stats

	Matched   []domain.TorrentRecord
	Unmatched []domain.TorrentRecord
	Outcomes  []domain.RemovalOutcome
}

func (r *Report) transition(l zerolog.Logger, next Stage) {
	l.Debug().Str("from", string(r.Stage)).Str("to", string(next)).Msg("reconcile: stage")
	r.Stage = next
	r.Stages = append(r.Stages, next)
}

func (r *Report) finish() {
	r.Took = time.Since(r.StartedAt)
}

// Removed counts successful removals.
func (r *Report) Removed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Removed()
}

// Result is a one-word summary of how the run ended.
func (r *Report) Result() string {
	switch {
	case r.DryRun && r.Stage == StageMatched:
		return "dry-run"
	case r.Stage == StageEmpty:
		return "no candidates"
	default:
		return string(r.Stage)
	}
}

// WriteSummary prints a human readable summary of the run.
func (r *Report) WriteSummary(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s finished in %s\n", r.RunID, r.Took.Round(time.Millisecond))
	fmt.Fprintf(&b, "  media:     %d identities from %d files in %d roots (%d warnings)\n",
		r.Index.Unique, r.Index.Files, r.Index.Roots, r.Index.Warnings)
	fmt.Fprintf(&b, "  torrents:  %d total, %d eligible, %d unresolved files\n",
		r.Inventory.Total, r.Inventory.Eligible, r.Inventory.SkippedFiles)
	if rejected := formatRejections(r.Inventory.Rejected); rejected != "" {
		fmt.Fprintf(&b, "  rejected:  %s\n", rejected)
	}
	fmt.Fprintf(&b, "  matched:   %d (policy %s)\n", len(r.Matched), r.Policy)
	fmt.Fprintf(&b, "  unmatched: %d\n", len(r.Unmatched))

	if r.DryRun && len(r.Matched) > 0 {
		b.WriteString("candidates:\n")
		for _, t := range r.Matched {
			fmt.Fprintf(&b, "  %s [%s]\n", t.Name, t.ID)
		}
	}

	if len(r.Outcomes) > 0 {
		b.WriteString("outcomes:\n")
		for _, o := range r.Outcomes {
			if o.Success() {
				fmt.Fprintf(&b, "  removed  %s\n", o.Name)
				continue
			}
			fmt.Fprintf(&b, "  FAILED   %s: %v\n", o.Name, o.Err)
		}
		fmt.Fprintf(&b, "  %d removed, %d failed\n", r.Removed(), r.Failed())
	}

	fmt.Fprintf(&b, "result: %s\n", r.Result())

	_, err := io.WriteString(w, b.String())
	return err
}

func formatRejections(rejected map[inventory.Rejection]int) string {
	parts := make([]string, 0, len(rejected))
	for reason, n := range rejected {
		if n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
