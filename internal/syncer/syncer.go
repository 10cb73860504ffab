// Package syncer runs one sheet-to-files sync pass.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sheetsync/internal/logger"
	"sheetsync/internal/models"
	"sheetsync/internal/normalizer"
	"sheetsync/internal/output"
	"sheetsync/internal/syncstate"
	"sheetsync/pkg/fingerprint"
)

// Source yields the raw records of the catalogue.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawRecord, error)
}

// Decision is what a run decided to do after change detection.
type Decision string

// Decisions.
const (
	DecisionFirstSync Decision = "first-sync"
	DecisionChanged   Decision = "changed"
	DecisionForced    Decision = "forced"
	DecisionUnchanged Decision = "unchanged"
)

// Wrapped stage failures.
var (
	ErrFetch     = errors.New("fetching records failed")
	ErrStateLoad = errors.New("loading sync state failed")
	ErrStateSave = errors.New("saving sync state failed")
	ErrWrite     = errors.New("writing output failed")
)

// Options controls a single run.
type Options struct {
	Force  bool
	DryRun bool
}

// Result reports what a run did.
type Result struct {
	Rejections   map[string]int
	PreviousHash string
	Fingerprint  string
	RunID        string
	Decision     Decision
	Files        []string
	Pruned       []string
	RowsRead     int
	Accepted     int
	Songs        int
	DateWarnings int
	Duplicates   int
	Collisions   int
	EmptySlugs   int
	Duration     time.Duration
	DryRun       bool
}

// Synced reports whether output was (or, in a dry run, would be) regenerated.
func (r *Result) Synced() bool {
	return r.Decision != DecisionUnchanged
}

// Deps are the collaborators of a Syncer.
type Deps struct {
	Source    Source
	Store     syncstate.Store
	Processor *normalizer.Processor
	Writer    *output.Writer
	Logger    *logger.Logger
	Now       func() time.Time
	NewRunID  func() string
}

// Syncer orchestrates fetch, change detection, normalization and output.
type Syncer struct {
	source    Source
	store     syncstate.Store
	processor *normalizer.Processor
	writer    *output.Writer
	log       *logger.Logger
	now       func() time.Time
	newRunID  func() string
}

// New creates a syncer. Source, Store and Writer are required.
func New(deps Deps) (*Syncer, error) {
	if deps.Source == nil || deps.Store == nil || deps.Writer == nil {
		return nil, errors.New("syncer requires a source, a state store and a writer")
	}

	s := &Syncer{
		source:    deps.Source,
		store:     deps.Store,
		processor: deps.Processor,
		writer:    deps.Writer,
		log:       deps.Logger,
		now:       deps.Now,
		newRunID:  deps.NewRunID,
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.processor == nil {
		s.processor = normalizer.NewProcessorWithClock(s.now)
	}

	if s.log == nil {
		s.log = logger.Discard()
	}

	if s.newRunID == nil {
		s.newRunID = func() string { return uuid.NewString() }
	}

	return s, nil
}

// Run executes one pass. When the fingerprint of the accepted records equals
// the stored one and Force is not set, nothing is written and the state is
// left untouched.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Result, error) {
	start := s.now()
	result := &Result{
		RunID:      s.newRunID(),
		DryRun:     opts.DryRun,
		Rejections: map[string]int{},
	}
	log := s.log.With("run_id", result.RunID)

	// Phase 1: fetch and filter
	log.Info("📥 Fetching records", "source", s.source.Name())

	records, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	result.RowsRead = len(records)

	filtered := s.processor.Filter(records)
	result.Accepted = len(filtered.Accepted)
	s.reportRejections(log, filtered, result)

	log.Info("✅ Filtered records", "rows", result.RowsRead, "accepted", result.Accepted,
		"rejected", len(filtered.Rejected))

	// Phase 2: change detection
	result.Fingerprint, err = fingerprint.Records(filtered.Accepted)
	if err != nil {
		return nil, fmt.Errorf("computing fingerprint: %w", err)
	}

	previous, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateLoad, err)
	}

	result.Decision = decide(previous, result.Fingerprint, opts.Force)
	if previous != nil {
		result.PreviousHash = previous.SongsHash
	}

	if result.Decision == DecisionUnchanged {
		log.Info("No changes detected, skipping sync", "fingerprint", fingerprint.Short(result.Fingerprint))
		result.Duration = s.now().Sub(start)

		return result, nil
	}

	log.Info("🔄 Changes detected", "decision", string(result.Decision),
		"fingerprint", fingerprint.Short(result.Fingerprint),
		"previous", fingerprint.Short(result.PreviousHash))

	// Phase 3: group and normalize
	grouped := s.processor.Group(filtered.Accepted)
	result.Songs = len(grouped.Songs)
	result.DateWarnings = len(grouped.Warnings)
	result.Duplicates = len(grouped.Duplicates)

	for _, w := range grouped.Warnings {
		log.Warn("Field could not be normalized", "row", w.Row, "title", w.Title,
			"field", w.Field, "value", w.Value, "reason", w.Message)
	}

	for _, d := range grouped.Duplicates {
		log.Warn("Duplicate song name, later row wins", "title", d.Title,
			"replaced_row", d.ReplacedRow, "row", d.Row)
	}

	if opts.DryRun {
		plan := output.NewPlan(grouped.Songs)
		result.Files = plan.Filenames()
		result.Collisions = len(plan.Collisions)
		result.EmptySlugs = len(plan.Skipped)
		result.Duration = s.now().Sub(start)

		log.Info("Dry run, nothing written", "files", len(result.Files))

		return result, nil
	}

	// Phase 4: write output
	written, err := s.writer.Write(grouped.Songs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	result.Files = written.Files
	result.Pruned = written.Pruned
	result.Collisions = len(written.Collisions)
	result.EmptySlugs = len(written.Skipped)

	// Phase 5: persist state
	state := &models.SyncState{
		LastSync:   s.now().UTC(),
		SongsHash:  result.Fingerprint,
		RunID:      result.RunID,
		TotalSongs: result.Accepted,
		ForcedSync: opts.Force,
	}

	if err := s.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateSave, err)
	}

	result.Duration = s.now().Sub(start)

	log.Info("✨ Sync complete", "songs", result.Songs, "files", len(result.Files),
		"pruned", len(result.Pruned), "duration", result.Duration)

	return result, nil
}

func decide(previous *models.SyncState, fp string, force bool) Decision {
	switch {
	case force:
		return DecisionForced
	case previous == nil:
		return DecisionFirstSync
	case previous.SongsHash != fp:
		return DecisionChanged
	default:
		return DecisionUnchanged
	}
}

func (s *Syncer) reportRejections(log *logger.Logger, filtered *normalizer.FilterResult, result *Result) {
	for _, rej := range filtered.Rejected {
		result.Rejections[reasonName(rej.Err)]++

		if errors.Is(rej, normalizer.ErrNotAccepted) {
			log.Debug("Skipping record", "row", rej.Row, "reason", rej.Error())
			continue
		}

		log.Warn("Skipping record", "row", rej.Row, "title", rej.Title, "reason", rej.Error())
	}
}

// Rejection reason names used in Result.Rejections.
const (
	ReasonNotAccepted   = "not_accepted"
	ReasonMissingFields = "missing_fields"
	ReasonEmptyTitle    = "empty_title"
	ReasonNoAttachments = "no_attachments"
)

func reasonName(err error) string {
	switch {
	case errors.Is(err, normalizer.ErrNotAccepted):
		return ReasonNotAccepted
	case errors.Is(err, normalizer.ErrMissingFields):
		return ReasonMissingFields
	case errors.Is(err, normalizer.ErrEmptyTitle):
		return ReasonEmptyTitle
	case errors.Is(err, normalizer.ErrNoAttachments):
		return ReasonNoAttachments
	default:
		return "other"
	}
}
