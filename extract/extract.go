// Package extract locates the GDP table among the tables of a page and reads
// its rows as raw text.
package extract

import (
	"errors"
	"strings"

	"github.com/tsawler/regiongdp/htmldoc"
)

// ErrNoTableFound is returned when no table has a column header mentioning IMF.
var ErrNoTableFound = errors.New("extract: no table with an IMF column header found")

// Header tokens matched by substring, case-sensitive.
const (
	imfToken       = "IMF"
	worldBankToken = "World Bank"
	unToken        = "United Nation" // matches "United Nations" too
)

// ColumnRef is an optional reference to a table column.
type ColumnRef struct {
	Index  int
	Header string
	Found  bool
}

// Column returns a found reference to column i.
func Column(i int, header string) ColumnRef {
	return ColumnRef{Index: i, Header: header, Found: true}
}

// cell returns the column's text in row, or "" and false when the reference
// is missing or the row is too short.
func (c ColumnRef) cell(row []string) (string, bool) {
	if !c.Found || c.Index < 0 || c.Index >= len(row) {
		return "", false
	}
	return row[c.Index], true
}

// GDPTable is the selected table with the columns the normalizer reads.
// Country is always the first column; the three source columns may be absent.
type GDPTable struct {
	Table     *htmldoc.ParsedTable
	Labels    []string
	Country   ColumnRef
	IMF       ColumnRef
	WorldBank ColumnRef
	UN        ColumnRef
}

// RawRow is one data row before normalization. A source field is only
// meaningful when its Has flag is set.
type RawRow struct {
	Name         string
	IMF          string
	WorldBank    string
	UN           string
	HasIMF       bool
	HasWorldBank bool
	HasUN        bool
}

// Select returns the first table, in document order, with a column label
// containing "IMF".
func Select(tables []*htmldoc.ParsedTable) (*GDPTable, error) {
	for _, table := range tables {
		labels := table.ColumnLabels()
		if findColumn(labels, imfToken).Found {
			return newGDPTable(table, labels), nil
		}
	}
	return nil, ErrNoTableFound
}

// FromHTML parses html and selects the GDP table. Every table of the page
// is considered, wherever it sits.
func FromHTML(html string) (*GDPTable, error) {
	r, err := htmldoc.OpenReaderWithOptions(strings.NewReader(html), htmldoc.Options{
		Navigation: htmldoc.NavigationExclusionNone,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Select(r.Tables())
}

func newGDPTable(table *htmldoc.ParsedTable, labels []string) *GDPTable {
	g := &GDPTable{
		Table:     table,
		Labels:    labels,
		IMF:       findColumn(labels, imfToken),
		WorldBank: findColumn(labels, worldBankToken),
		UN:        findColumn(labels, unToken),
	}
	if len(labels) > 0 {
		g.Country = Column(0, labels[0])
	}
	return g
}

// findColumn returns the first column whose label contains token.
func findColumn(labels []string, token string) ColumnRef {
	for i, label := range labels {
		if strings.Contains(label, token) {
			return Column(i, label)
		}
	}
	return ColumnRef{Index: -1}
}

// Rows returns the data rows in table order.
func (g *GDPTable) Rows() []RawRow {
	data := g.Table.DataRows()
	rows := make([]RawRow, 0, len(data))
	for _, cells := range data {
		var r RawRow
		r.Name, _ = g.Country.cell(cells)
		r.IMF, r.HasIMF = g.IMF.cell(cells)
		r.WorldBank, r.HasWorldBank = g.WorldBank.cell(cells)
		r.UN, r.HasUN = g.UN.cell(cells)
		rows = append(rows, r)
	}
	return rows
}
