package normalizer

import (
	"reflect"
	"testing"
	"time"

	"sheetsync/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor()
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Filter(t *testing.T) {
	p := NewProcessor()

	records := []models.RawRecord{
		completedRecord(2, "A", nil),
		completedRecord(3, "B", map[string]string{ColumnStatus: "todo"}),
		completedRecord(4, "", nil),
		completedRecord(5, "C", map[string]string{"Vocals": ""}),
		completedRecord(6, "D", nil),
		completedRecord(7, "E", map[string]string{ColumnStatus: "Not Started"}),
	}

	result := p.Filter(records)

	if len(result.Accepted) != 2 {
		t.Fatalf("Accepted = %d, want 2", len(result.Accepted))
	}

	if result.Accepted[0].Row != 2 || result.Accepted[1].Row != 6 {
		t.Errorf("accepted order changed: rows %d, %d", result.Accepted[0].Row, result.Accepted[1].Row)
	}

	if got := result.Count(ErrNotAccepted); got != 2 {
		t.Errorf("Count(ErrNotAccepted) = %d, want 2", got)
	}

	if got := result.Count(ErrMissingFields); got != 1 {
		t.Errorf("Count(ErrMissingFields) = %d, want 1", got)
	}

	if got := result.Count(ErrNoAttachments); got != 1 {
		t.Errorf("Count(ErrNoAttachments) = %d, want 1", got)
	}
}

func TestProcessor_Group_LastWins(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProcessorWithClock(func() time.Time { return now })

	first := completedRecord(2, "Same", map[string]string{
		ColumnProducer: "First",
		ColumnLabels:   "one, two",
		"Bb":           "ZYXWVUTSRQPONMLKJIHGFEDC",
	})
	second := completedRecord(9, "Same", map[string]string{
		ColumnProducer: "Second",
	})

	result := p.Group([]models.RawRecord{first, second})

	if len(result.Songs) != 1 {
		t.Fatalf("Songs = %d, want 1", len(result.Songs))
	}

	want, _ := NewTransformerWithClock(func() time.Time { return now }).Transform(second)

	got := result.Songs["Same"]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("grouped song = %+v, want %+v", got, want)
	}

	if len(got.Labels) != 0 {
		t.Errorf("labels merged from earlier record: %v", got.Labels)
	}

	if _, ok := got.PDFs["Bb"]; ok {
		t.Error("Bb PDF merged from earlier record")
	}

	if len(result.Duplicates) != 1 || result.Duplicates[0].ReplacedRow != 2 || result.Duplicates[0].Row != 9 {
		t.Errorf("Duplicates = %+v", result.Duplicates)
	}
}

func TestProcessor_Group_DropsEmptyTitle(t *testing.T) {
	p := NewProcessor()

	result := p.Group([]models.RawRecord{
		completedRecord(2, " ", nil),
		completedRecord(3, "Kept", nil),
	})

	if len(result.Songs) != 1 {
		t.Fatalf("Songs = %d, want 1", len(result.Songs))
	}

	if _, ok := result.Songs["Kept"]; !ok {
		t.Error("expected song Kept")
	}
}

func TestProcessor_Group_TitlesAreCaseSensitive(t *testing.T) {
	p := NewProcessor()

	result := p.Group([]models.RawRecord{
		completedRecord(2, "Song", nil),
		completedRecord(3, "song", nil),
	})

	if len(result.Songs) != 2 {
		t.Errorf("Songs = %d, want 2 distinct titles", len(result.Songs))
	}
}
