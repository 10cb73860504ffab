package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"sheetsync/internal/models"
)

// CSVSource reads records from a CSV export of the worksheet.
// A CSV export carries no hyperlinks, so records have display text only.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name describes the source for logs.
func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

// Fetch reads the file and returns its data rows.
func (s *CSVSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv source: %w", err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	return records, nil
}

// ParseCSV reads a header row and data rows from r.
func ParseCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var grid [][]gridCell

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cells := make([]gridCell, len(row))
		for i, v := range row {
			cells[i] = gridCell{Text: v}
		}

		grid = append(grid, cells)
	}

	return recordsFromGrid(grid)
}
