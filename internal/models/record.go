// Package models defines the data structures that flow through a sync run.
package models

// RawRecord is one data row from the tabular source.
//
// Cells maps column name to the displayed cell text. Links maps column name
// to the URI behind a hyperlink or rich-link chip, for the cells that have one.
type RawRecord struct {
	Cells map[string]string `json:"cells"`
	Links map[string]string `json:"links"`
	Row   int               `json:"-"`
}

// NewRawRecord creates an empty record for the given sheet row.
func NewRawRecord(row int) RawRecord {
	return RawRecord{
		Row:   row,
		Cells: map[string]string{},
		Links: map[string]string{},
	}
}

// Cell returns the text of a column, or "" if the column is absent.
func (r RawRecord) Cell(column string) string {
	return r.Cells[column]
}

// Link returns the hyperlink of a column, or "" if there is none.
func (r RawRecord) Link(column string) string {
	return r.Links[column]
}

// IsBlank reports whether every cell is empty and there are no links.
func (r RawRecord) IsBlank() bool {
	for _, v := range r.Cells {
		if v != "" {
			return false
		}
	}

	return len(r.Links) == 0
}
