// Package normalizer turns raw sheet records into normalized songs.
//
// The package is pure: it never logs and never touches the filesystem.
// Everything it recovers from is returned to the caller as a value.
package normalizer

import (
	"errors"
	"time"

	"sheetsync/internal/models"
)

// FilterResult is the outcome of running the validator over a record set.
type FilterResult struct {
	Accepted []models.RawRecord
	Rejected []*RejectionError
}

// Count returns the number of rejections caused by reason.
func (r *FilterResult) Count(reason error) int {
	n := 0

	for _, rej := range r.Rejected {
		if errors.Is(rej, reason) {
			n++
		}
	}

	return n
}

// Processor runs the filter and grouping stages.
type Processor struct {
	validator *Validator
	grouper   *Grouper
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return NewProcessorWithClock(time.Now)
}

// NewProcessorWithClock creates a processor whose songs are stamped using now.
func NewProcessorWithClock(now func() time.Time) *Processor {
	return &Processor{
		validator: NewValidator(),
		grouper:   NewGrouper(NewTransformerWithClock(now)),
	}
}

// Filter keeps the records that pass validation, in their original order.
func (p *Processor) Filter(records []models.RawRecord) *FilterResult {
	result := &FilterResult{
		Accepted: make([]models.RawRecord, 0, len(records)),
	}

	for _, rec := range records {
		err := p.validator.Validate(rec)
		if err == nil {
			result.Accepted = append(result.Accepted, rec)

			continue
		}

		var rej *RejectionError
		if errors.As(err, &rej) {
			result.Rejected = append(result.Rejected, rej)
		}
	}

	return result
}

// Group normalizes accepted records into one song per title.
func (p *Processor) Group(accepted []models.RawRecord) *GroupResult {
	return p.grouper.Group(accepted)
}
