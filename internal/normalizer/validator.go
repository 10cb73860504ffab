package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"sheetsync/internal/models"
)

// Rejection reasons.
var (
	ErrNotAccepted   = errors.New("status is not accepted")
	ErrMissingFields = errors.New("missing required fields")
	ErrEmptyTitle    = errors.New("empty song name")
	ErrNoAttachments = errors.New("no valid PDF files found")
)

// RejectionError describes why a record was excluded from the output.
type RejectionError struct {
	Err     error
	Title   string
	Status  string
	Missing []string
	Row     int
}

func (e *RejectionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingFields):
		return fmt.Sprintf("row %d: %v: %s", e.Row, e.Err, strings.Join(e.Missing, ", "))
	case errors.Is(e.Err, ErrNoAttachments):
		return fmt.Sprintf("row %d: %v for %q", e.Row, e.Err, e.Title)
	case errors.Is(e.Err, ErrNotAccepted):
		return fmt.Sprintf("row %d: %v (%q)", e.Row, e.Err, e.Status)
	default:
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Validator decides whether a raw record qualifies for inclusion.
type Validator struct {
	requiredFields []string
	slots          []string
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{
		requiredFields: []string{ColumnTitle, ColumnStatus},
		slots:          AttachmentSlots,
	}
}

// Validate returns nil if the record qualifies, or a *RejectionError.
// Rules run in order and stop at the first failure. The record is not modified.
func (v *Validator) Validate(rec models.RawRecord) error {
	row := ParseRow(rec)

	if !row.IsAccepted() {
		return &RejectionError{Err: ErrNotAccepted, Row: rec.Row, Status: row.Status}
	}

	var missing []string

	for _, field := range v.requiredFields {
		if rec.Cell(field) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return &RejectionError{Err: ErrMissingFields, Row: rec.Row, Missing: missing}
	}

	title := strings.TrimSpace(row.Title)
	if title == "" {
		return &RejectionError{Err: ErrEmptyTitle, Row: rec.Row}
	}

	if !v.hasAttachment(row) {
		return &RejectionError{Err: ErrNoAttachments, Row: rec.Row, Title: title}
	}

	return nil
}

// hasAttachment checks hyperlinks first and falls back to the cell text
// only when no hyperlink held a valid ID.
func (v *Validator) hasAttachment(row Row) bool {
	for _, slot := range v.slots {
		if _, ok := ExtractDriveID(row.Attachments[slot].Link); ok {
			return true
		}
	}

	for _, slot := range v.slots {
		if _, ok := ExtractDriveID(row.Attachments[slot].Text); ok {
			return true
		}
	}

	return false
}
