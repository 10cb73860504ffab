package normalizer

import (
	"fmt"
	"strings"
	"time"

	"sheetsync/internal/models"
)

// Warning is a recovered field-level anomaly found while normalizing a row.
type Warning struct {
	Field   string
	Value   string
	Title   string
	Message string
	Row     int
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d (%s): %s %q: %s", w.Row, w.Title, w.Field, w.Value, w.Message)
}

// Transformer maps raw records to normalized songs.
type Transformer struct {
	now func() time.Time
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return NewTransformerWithClock(time.Now)
}

// NewTransformerWithClock creates a transformer that stamps songs using now.
func NewTransformerWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

// Transform normalizes one record. It never fails: values that cannot be
// parsed fall back to defaults or pass through, and are reported as warnings.
func (t *Transformer) Transform(rec models.RawRecord) (*models.Song, []Warning) {
	row := ParseRow(rec)
	title := strings.TrimSpace(row.Title)

	var warnings []Warning

	releaseDate, ok := NormalizeDate(row.ReleaseDate)
	if !ok {
		warnings = append(warnings, Warning{
			Row:     rec.Row,
			Title:   title,
			Field:   ColumnReleaseDate,
			Value:   releaseDate,
			Message: "could not parse date",
		})
	}

	song := &models.Song{
		Row:                 rec.Row,
		Title:               title,
		AlternativeNames:    SplitList(row.AlternativeNames),
		Producer:            strings.TrimSpace(row.Producer),
		AdditionalProducers: SplitList(row.AdditionalProducers),
		Singer:              strings.TrimSpace(row.Singer),
		AdditionalVoices:    SplitList(row.AdditionalVoices),
		ReleaseDate:         releaseDate,
		Labels:              SplitList(row.Labels),
		Transcriber:         strings.TrimSpace(row.Transcriber),
		VideoLinks:          videoLinks(row),
		PDFs:                pdfs(row),
		Status:              strings.TrimSpace(row.Status),
		LastUpdated:         t.now(),
	}

	return song, warnings
}

func videoLinks(row Row) map[string]string {
	links := map[string]string{}

	for _, slot := range VideoLinkSlots {
		if link := ResolveLink(row.VideoLinks[slot.Key]); link != "" {
			links[slot.Key] = link
		}
	}

	return links
}

func pdfs(row Row) map[string]string {
	out := map[string]string{}

	for _, slot := range AttachmentSlots {
		if id, ok := ResolveAttachment(row.Attachments[slot]); ok {
			out[slot] = DriveViewURL(id)
		}
	}

	return out
}
