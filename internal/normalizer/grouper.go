package normalizer

import "sheetsync/internal/models"

// Duplicate records a song that replaced an earlier song with the same title.
type Duplicate struct {
	Title       string
	ReplacedRow int
	Row         int
}

// GroupResult holds the songs keyed by title plus what happened on the way.
type GroupResult struct {
	Songs      map[string]*models.Song
	Warnings   []Warning
	Duplicates []Duplicate
}

// Grouper collapses normalized records into one song per title.
type Grouper struct {
	transformer *Transformer
}

// NewGrouper creates a grouper that normalizes with the given transformer.
func NewGrouper(transformer *Transformer) *Grouper {
	return &Grouper{transformer: transformer}
}

// Group normalizes each accepted record in order and keys it by title.
// A later record with the same title replaces the earlier one in full.
// Songs whose title is empty after normalization are dropped.
func (g *Grouper) Group(records []models.RawRecord) *GroupResult {
	result := &GroupResult{
		Songs: make(map[string]*models.Song, len(records)),
	}

	for _, rec := range records {
		song, warnings := g.transformer.Transform(rec)
		result.Warnings = append(result.Warnings, warnings...)

		if song.Title == "" {
			continue
		}

		if prev, ok := result.Songs[song.Title]; ok {
			result.Duplicates = append(result.Duplicates, Duplicate{
				Title:       song.Title,
				ReplacedRow: prev.Row,
				Row:         song.Row,
			})
		}

		result.Songs[song.Title] = song
	}

	return result
}
