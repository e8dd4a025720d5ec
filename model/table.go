package model

import (
	"strconv"
	"strings"
)

// Table represents a table with cells organized in rows and columns.
// The first row is the header row.
type Table struct {
	Rows [][]Cell
}

// Cell represents a table cell
type Cell struct {
	Text     string
	IsHeader bool
}

// AppendRow adds a row built from the given texts.
func (t *Table) AppendRow(header bool, texts ...string) {
	row := make([]Cell, len(texts))
	for i, text := range texts {
		row[i] = Cell{Text: text, IsHeader: header}
	}
	t.Rows = append(t.Rows, row)
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	writeRow := func(row []Cell) {
		for j, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(escapeMarkdown(cell.Text))
			sb.WriteString(" ")
			if j == len(row)-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.Rows[0])

	// Separator
	for j := range t.Rows[0] {
		sb.WriteString("|---")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			// Escape quotes and wrap in quotes if necessary
			text := cell.Text
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// escapeMarkdown replaces characters that break markdown table cells.
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\n", " ")
}

// BucketsTable flattens region buckets into a Region, Country, GDP table.
// Values are written without exponent so they round-trip through ParseFloat.
func BucketsTable(buckets []RegionBucket) *Table {
	t := &Table{}
	t.AppendRow(true, "Region", "Country", "GDP")
	for _, b := range buckets {
		for _, e := range b.Entries {
			t.AppendRow(false, b.Region, e.Label, strconv.FormatFloat(e.Value, 'f', -1, 64))
		}
	}
	return t
}

// RecordsTable renders normalized records as a Country, IMF, World Bank, UN, Region table.
func RecordsTable(records []CountryRecord) *Table {
	t := &Table{}
	t.AppendRow(true, "Country", IMF.String(), WorldBank.String(), UN.String(), "Region")
	for _, r := range records {
		t.AppendRow(false, append(r.Row(), r.Region)...)
	}
	return t
}
