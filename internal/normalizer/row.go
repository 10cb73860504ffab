package normalizer

import (
	"strings"

	"sheetsync/internal/models"
)

// Recognized sheet columns.
const (
	ColumnTitle               = "Song Name"
	ColumnStatus              = "Status"
	ColumnAlternativeNames    = "Alternative Names"
	ColumnProducer            = "Producer"
	ColumnAdditionalProducers = "Additional Producers (comma sep)"
	ColumnSinger              = "Original Voice"
	ColumnAdditionalVoices    = "Additional Voices (comma sep)"
	ColumnReleaseDate         = "Release Date (ISO)"
	ColumnLabels              = "Labels (comma sep)"
	ColumnTranscriber         = "Transcriber"
	ColumnYoutube             = "Youtube"
)

// AcceptedStatus is the status value that makes a row eligible for output.
const AcceptedStatus = "completed"

// AttachmentSlots lists the instrument columns that may carry a PDF link.
// The column name doubles as the key in the song's pdfs map.
var AttachmentSlots = []string{"Vocals", "Bb", "C", "Eb", "F", "G", "Alto", "Bass"}

// LinkSlot maps a sheet column to a key in the song's videoLinks map.
type LinkSlot struct {
	Column string
	Key    string
}

// VideoLinkSlots lists the recognized external link columns.
var VideoLinkSlots = []LinkSlot{
	{Column: ColumnYoutube, Key: "YouTube"},
}

// Cell is the display text of a cell and the hyperlink behind it, if any.
type Cell struct {
	Text string
	Link string
}

// Row is the typed view of a raw record over the recognized columns.
// Columns missing from the record are empty; unknown columns are ignored.
type Row struct {
	Attachments         map[string]Cell
	VideoLinks          map[string]Cell
	Title               string
	Status              string
	AlternativeNames    string
	Producer            string
	AdditionalProducers string
	Singer              string
	AdditionalVoices    string
	ReleaseDate         string
	Labels              string
	Transcriber         string
	Number              int
}

// ParseRow maps a raw record onto the recognized column schema.
func ParseRow(rec models.RawRecord) Row {
	row := Row{
		Number:              rec.Row,
		Title:               rec.Cell(ColumnTitle),
		Status:              rec.Cell(ColumnStatus),
		AlternativeNames:    rec.Cell(ColumnAlternativeNames),
		Producer:            rec.Cell(ColumnProducer),
		AdditionalProducers: rec.Cell(ColumnAdditionalProducers),
		Singer:              rec.Cell(ColumnSinger),
		AdditionalVoices:    rec.Cell(ColumnAdditionalVoices),
		ReleaseDate:         rec.Cell(ColumnReleaseDate),
		Labels:              rec.Cell(ColumnLabels),
		Transcriber:         rec.Cell(ColumnTranscriber),
		Attachments:         make(map[string]Cell, len(AttachmentSlots)),
		VideoLinks:          make(map[string]Cell, len(VideoLinkSlots)),
	}

	for _, slot := range AttachmentSlots {
		row.Attachments[slot] = Cell{Text: rec.Cell(slot), Link: rec.Link(slot)}
	}

	for _, slot := range VideoLinkSlots {
		row.VideoLinks[slot.Key] = Cell{Text: rec.Cell(slot.Column), Link: rec.Link(slot.Column)}
	}

	return row
}

// IsAccepted reports whether the row's status is the accepted token,
// ignoring case and surrounding whitespace.
func (r Row) IsAccepted() bool {
	return strings.ToLower(strings.TrimSpace(r.Status)) == AcceptedStatus
}
