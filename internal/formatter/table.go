// Package formatter renders plain-text reports for the CLI.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps the separator row at least "---".
const minColumnWidth = 3

// Table is a pipe-delimited table whose columns are padded by display width,
// so CJK and other wide titles line up in a terminal.
type Table struct {
	headers []string
	rows    [][]string
	// MaxWidth truncates cells wider than this many columns. Zero disables it.
	MaxWidth int
}

// NewTable creates a table with the given header row.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing cells render empty, extra cells widen the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the header, a separator and every row.
func (t *Table) String() string {
	table := make([][]string, 0, len(t.rows)+1)
	table = append(table, t.clean(t.headers))

	for _, row := range t.rows {
		table = append(table, t.clean(row))
	}

	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	var sb strings.Builder

	writeRow(&sb, table[0], colWidths)
	writeSeparator(&sb, colWidths)

	for _, row := range table[1:] {
		writeRow(&sb, row, colWidths)
	}

	return sb.String()
}

func (t *Table) clean(row []string) []string {
	cells := make([]string, len(row))

	for i, cell := range row {
		cell = strings.TrimSpace(strings.ReplaceAll(cell, "|", "/"))
		cell = strings.Join(strings.Fields(cell), " ")

		if t.MaxWidth > 0 && runewidth.StringWidth(cell) > t.MaxWidth {
			cell = runewidth.Truncate(cell, t.MaxWidth, "...")
		}

		cells[i] = cell
	}

	return cells
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")

	for j, width := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, width))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

func writeSeparator(sb *strings.Builder, widths []int) {
	sb.WriteString("|")

	for _, width := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}
