package extract

import (
	"errors"
	"testing"

	"github.com/tsawler/regiongdp/htmldoc"
)

const wikiTable = `<html><body>
<table class="wikitable"><tr><th>Legend</th></tr><tr><td>nothing here</td></tr></table>
<table class="wikitable sortable">
<tr>
	<th rowspan="2">Country/Territory</th>
	<th colspan="2">IMF<sup>[1][13]</sup></th>
	<th colspan="2">World Bank<sup>[14]</sup></th>
	<th colspan="2">United Nations<sup>[15]</sup></th>
</tr>
<tr><th>Forecast</th><th>Year</th><th>Estimate</th><th>Year</th><th>Estimate</th><th>Year</th></tr>
<tr><td>United States[a]</td><td>27,360,935</td><td>2024</td><td>25,462,700</td><td>2022</td><td>26,854,599</td><td>2022</td></tr>
<tr><td>Monaco</td><td>—</td><td>—</td><td>8,596</td><td>2022</td><td>8,468</td><td>2021</td></tr>
</table>
<table><tr><th>IMF (second)</th></tr><tr><td>1</td></tr></table>
</body></html>`

func TestFromHTML_SelectsFirstIMFTable(t *testing.T) {
	g, err := FromHTML(wikiTable)
	if err != nil {
		t.Fatalf("FromHTML() failed: %v", err)
	}

	if g.Labels[0] != "Country/Territory" {
		t.Errorf("Labels[0] = %q", g.Labels[0])
	}

	tests := []struct {
		name  string
		ref   ColumnRef
		index int
	}{
		{"country", g.Country, 0},
		{"imf", g.IMF, 1},
		{"world bank", g.WorldBank, 3},
		{"un", g.UN, 5},
	}
	for _, tt := range tests {
		if !tt.ref.Found || tt.ref.Index != tt.index {
			t.Errorf("%s ref = %+v, want index %d", tt.name, tt.ref, tt.index)
		}
	}
	if g.IMF.Header != "IMF[1][13] Forecast" {
		t.Errorf("IMF header = %q", g.IMF.Header)
	}
}

func TestFromHTML_NavigationContainers(t *testing.T) {
	const table = `<table><tr><th>Country</th><th>IMF</th></tr><tr><td>Japan</td><td>4,212,945</td></tr></table>`

	tests := []struct {
		name string
		html string
	}{
		{"nav", `<html><body><nav>` + table + `</nav></body></html>`},
		{"aside", `<html><body><aside>` + table + `</aside></body></html>`},
		{"sidebar class", `<html><body><div class="sidebar">` + table + `</div></body></html>`},
		{"navbox class", `<html><body><div class="navbox">` + table + `</div></body></html>`},
		{"navigation role", `<html><body><div role="navigation">` + table + `</div></body></html>`},
		{"page footer", `<html><body><footer>` + table + `</footer></body></html>`},
		{"plain div", `<html><body><div>` + table + `</div></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromHTML(tt.html)
			if err != nil {
				t.Fatalf("FromHTML() error = %v", err)
			}
			rows := g.Rows()
			if len(rows) != 1 || rows[0].Name != "Japan" || rows[0].IMF != "4,212,945" {
				t.Errorf("Rows() = %+v", rows)
			}
		})
	}
}

func TestFromHTML_NavigationTableFirst(t *testing.T) {
	html := `<html><body>
<nav><table><tr><th>IMF menu</th></tr><tr><td>x</td></tr></table></nav>
<table><tr><th>Country</th><th>IMF</th></tr><tr><td>Japan</td><td>1</td></tr></table>
</body></html>`

	g, err := FromHTML(html)
	if err != nil {
		t.Fatalf("FromHTML() error = %v", err)
	}
	if g.Labels[0] != "IMF menu" {
		t.Errorf("selected table labels = %q, want the first IMF table in document order", g.Labels)
	}
}

func TestGDPTable_Rows(t *testing.T) {
	g, err := FromHTML(wikiTable)
	if err != nil {
		t.Fatalf("FromHTML() failed: %v", err)
	}

	rows := g.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() = %d, want 2", len(rows))
	}

	want := RawRow{
		Name: "United States[a]", IMF: "27,360,935", WorldBank: "25,462,700", UN: "26,854,599",
		HasIMF: true, HasWorldBank: true, HasUN: true,
	}
	if rows[0] != want {
		t.Errorf("Rows()[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].Name != "Monaco" || rows[1].IMF != "—" {
		t.Errorf("Rows()[1] = %+v", rows[1])
	}
}

func TestSelect_NoTable(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no tables", `<html><body><p>nothing</p></body></html>`},
		{"no IMF header", `<table><tr><th>Country</th><th>GDP</th></tr><tr><td>A</td><td>1</td></tr></table>`},
		{"lowercase imf", `<table><tr><th>Country</th><th>imf estimate</th></tr><tr><td>A</td><td>1</td></tr></table>`},
		{"IMF only in body", `<table><tr><th>Country</th><th>GDP</th></tr><tr><td>IMF</td><td>1</td></tr></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromHTML(tt.html)
			if !errors.Is(err, ErrNoTableFound) {
				t.Errorf("FromHTML() error = %v, want ErrNoTableFound", err)
			}
		})
	}
}

func TestSelect_MissingSourceColumns(t *testing.T) {
	html := `<table>
	<tr><th>Country</th><th>IMF</th></tr>
	<tr><td>Japan</td><td>4,110,452</td></tr>
	</table>`

	g, err := FromHTML(html)
	if err != nil {
		t.Fatalf("FromHTML() failed: %v", err)
	}
	if g.WorldBank.Found || g.UN.Found {
		t.Errorf("WorldBank/UN refs should be absent: %+v %+v", g.WorldBank, g.UN)
	}

	rows := g.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %d, want 1", len(rows))
	}
	if rows[0].HasWorldBank || rows[0].HasUN || !rows[0].HasIMF {
		t.Errorf("Rows()[0] flags = %+v", rows[0])
	}
}

func TestSelect_UnitedNationSingular(t *testing.T) {
	g, err := FromHTML(`<table><tr><th>Country</th><th>IMF</th><th>United Nation</th></tr><tr><td>A</td><td>1</td><td>2</td></tr></table>`)
	if err != nil {
		t.Fatalf("FromHTML() failed: %v", err)
	}
	if !g.UN.Found || g.UN.Index != 2 {
		t.Errorf("UN ref = %+v, want index 2", g.UN)
	}
}

func TestRows_ShortRow(t *testing.T) {
	table := &htmldoc.ParsedTable{Rows: [][]htmldoc.TableCell{
		{{Text: "Country", IsHeader: true}, {Text: "IMF", IsHeader: true}, {Text: "World Bank", IsHeader: true}},
		{{Text: "A"}},
	}}

	g, err := Select([]*htmldoc.ParsedTable{table})
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	rows := g.Rows()
	if len(rows) != 1 || rows[0].Name != "A" {
		t.Fatalf("Rows() = %+v", rows)
	}
	// Grid pads short rows, so the columns are present but empty.
	if rows[0].IMF != "" || rows[0].WorldBank != "" {
		t.Errorf("padded cells should be empty: %+v", rows[0])
	}
}

func TestColumnRef_Cell(t *testing.T) {
	row := []string{"a", "b"}

	if v, ok := Column(1, "x").cell(row); !ok || v != "b" {
		t.Errorf("cell() = %q, %v", v, ok)
	}
	if _, ok := Column(5, "x").cell(row); ok {
		t.Error("cell() out of range should be false")
	}
	if _, ok := (ColumnRef{}).cell(row); ok {
		t.Error("cell() on missing ref should be false")
	}
}
