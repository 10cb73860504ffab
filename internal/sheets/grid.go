package sheets

import (
	"errors"
	"fmt"
	"strings"

	"sheetsync/internal/models"
)

// Grid errors.
var (
	ErrEmptySheet      = errors.New("worksheet has no header row")
	ErrDuplicateHeader = errors.New("duplicate column header")
)

// gridCell is one cell of a worksheet: its display text and optional link.
type gridCell struct {
	Text string
	Link string
}

// recordsFromGrid turns a worksheet grid into raw records.
//
// The first row is the header. Every later row becomes a record holding a
// cell for each non-empty header column (missing cells are ""). Row numbers
// are 1-based sheet rows, so the first record is row 2. Blank rows are skipped.
func recordsFromGrid(grid [][]gridCell) ([]models.RawRecord, error) {
	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(grid[0]))
	seen := make(map[string]int, len(grid[0]))

	for i, cell := range grid[0] {
		name := strings.TrimSpace(cell.Text)
		if name == "" {
			continue
		}

		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w %q in columns %d and %d", ErrDuplicateHeader, name, prev+1, i+1)
		}

		seen[name] = i
		header[i] = name
	}

	if len(seen) == 0 {
		return nil, ErrEmptySheet
	}

	records := make([]models.RawRecord, 0, len(grid)-1)

	for r, cells := range grid[1:] {
		rec := models.NewRawRecord(r + 2)

		for c, name := range header {
			if name == "" {
				continue
			}

			var cell gridCell
			if c < len(cells) {
				cell = cells[c]
			}

			rec.Cells[name] = cell.Text

			if cell.Link != "" {
				rec.Links[name] = cell.Link
			}
		}

		if rec.IsBlank() {
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}
