// Package htmldoc provides HTML table parsing.
package htmldoc

import "strings"

// NavigationExclusionMode controls which boilerplate containers are skipped
// when collecting tables.
type NavigationExclusionMode int

const (
	// NavigationExclusionNone collects every table in the document.
	NavigationExclusionNone NavigationExclusionMode = iota

	// NavigationExclusionExplicit skips tables inside <nav>, <aside> and
	// ARIA navigation/complementary roles.
	NavigationExclusionExplicit

	// NavigationExclusionStandard also skips containers whose class
	// or id matches common boilerplate patterns such as navbox, sidebar and
	// metadata message boxes.
	NavigationExclusionStandard
)

// ParsedTable represents a table extracted from HTML.
type ParsedTable struct {
	Rows      [][]TableCell
	HasHeader bool   // true when a <thead> or leading <th> row was present
	Caption   string // text of <caption>, if any
	Class     string // class attribute of the <table> element
}

// TableCell represents a cell in an HTML table.
type TableCell struct {
	Text     string
	IsHeader bool
	RowSpan  int
	ColSpan  int
}

// Grid expands row and column spans into a rectangular grid of cell texts.
// A spanned cell's text is repeated in every position it covers. Short rows
// are padded with empty strings.
func (t *ParsedTable) Grid() [][]string {
	grid, _ := t.expand()
	return grid
}

// expand returns the span-expanded text grid and a parallel grid of header flags.
func (t *ParsedTable) expand() ([][]string, [][]bool) {
	type pending struct {
		text     string
		isHeader bool
		left     int // rows still to fill below the origin row
	}
	carry := map[int]*pending{}

	var grid [][]string
	var headers [][]bool
	width := 0

	for _, row := range t.Rows {
		var texts []string
		var flags []bool
		col := 0

		fillCarried := func() {
			for {
				p, ok := carry[col]
				if !ok {
					return
				}
				texts = append(texts, p.text)
				flags = append(flags, p.isHeader)
				p.left--
				if p.left <= 0 {
					delete(carry, col)
				}
				col++
			}
		}

		for _, cell := range row {
			fillCarried()
			colSpan := max(cell.ColSpan, 1)
			rowSpan := max(cell.RowSpan, 1)
			for k := 0; k < colSpan; k++ {
				texts = append(texts, cell.Text)
				flags = append(flags, cell.IsHeader)
				if rowSpan > 1 {
					carry[col] = &pending{text: cell.Text, isHeader: cell.IsHeader, left: rowSpan - 1}
				}
				col++
			}
		}
		// Spans from earlier rows that sit beyond this row's last cell.
		for hasCarryAtOrAfter(carry, col) {
			if _, ok := carry[col]; !ok {
				texts = append(texts, "")
				flags = append(flags, false)
				col++
				continue
			}
			fillCarried()
		}

		width = max(width, len(texts))
		grid = append(grid, texts)
		headers = append(headers, flags)
	}

	for i := range grid {
		for len(grid[i]) < width {
			grid[i] = append(grid[i], "")
			headers[i] = append(headers[i], false)
		}
	}
	return grid, headers
}

func hasCarryAtOrAfter[T any](carry map[int]T, col int) bool {
	for c := range carry {
		if c >= col {
			return true
		}
	}
	return false
}

// HeaderRows returns the number of leading rows made only of header cells.
// A table with rows but no header cells is treated as having a one-row header.
func (t *ParsedTable) HeaderRows() int {
	_, flags := t.expand()
	n := 0
	for _, row := range flags {
		if len(row) == 0 || !allTrue(row) {
			break
		}
		n++
	}
	if n == 0 && len(t.Rows) > 0 {
		return 1
	}
	return n
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

// ColumnLabels returns one label per column, built by joining the column's
// header cell texts with a space. Newlines become spaces and consecutive
// duplicates produced by rowspans are collapsed.
func (t *ParsedTable) ColumnLabels() []string {
	grid := t.Grid()
	n := t.HeaderRows()
	if len(grid) == 0 {
		return nil
	}

	labels := make([]string, len(grid[0]))
	for col := range labels {
		var parts []string
		for row := 0; row < n && row < len(grid); row++ {
			text := cleanHeader(grid[row][col])
			if text == "" {
				continue
			}
			if len(parts) > 0 && parts[len(parts)-1] == text {
				continue
			}
			parts = append(parts, text)
		}
		labels[col] = strings.Join(parts, " ")
	}
	return labels
}

// DataRows returns the span-expanded rows that follow the header rows.
func (t *ParsedTable) DataRows() [][]string {
	grid := t.Grid()
	n := t.HeaderRows()
	if n >= len(grid) {
		return nil
	}
	return grid[n:]
}

func cleanHeader(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " "))
}

// ToMarkdown converts the table to markdown format.
func (t *ParsedTable) ToMarkdown() string {
	grid := t.Grid()
	if len(grid) == 0 {
		return ""
	}

	var result strings.Builder

	result.WriteString("|")
	for _, label := range t.ColumnLabels() {
		result.WriteString(" " + escapeMarkdown(label) + " |")
	}
	result.WriteString("\n|")
	for range grid[0] {
		result.WriteString(" --- |")
	}
	result.WriteString("\n")

	for _, row := range t.DataRows() {
		result.WriteString("|")
		for _, cell := range row {
			result.WriteString(" " + escapeMarkdown(cell) + " |")
		}
		result.WriteString("\n")
	}

	return result.String()
}

// escapeMarkdown escapes special markdown characters in text.
func escapeMarkdown(text string) string {
	// Replace pipe characters which break markdown tables
	var result strings.Builder
	for _, r := range text {
		switch r {
		case '|':
			result.WriteString("\\|")
		case '\n':
			result.WriteString(" ")
		case '\r':
			// Skip
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
