// Package normalize turns raw GDP table rows into country records.
//
// Names lose their footnote markers, figures lose everything that is not a
// digit or decimal point, and rows for aggregates such as "World" are
// dropped. Parse failures never abort: an unreadable figure is simply absent.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/regiongdp/extract"
	"github.com/tsawler/regiongdp/model"
)

// footnotePattern is greedy: "Name[a] extra[b]" loses everything from the
// first "[" to the last "]".
var footnotePattern = regexp.MustCompile(`\[.*\]`)

// aggregateNames are rows that summarise other rows rather than describe a country.
var aggregateNames = map[string]struct{}{
	"World":          {},
	"World total":    {},
	"European Union": {},
	"Eurozone":       {},
	"Asia":           {},
	"Africa":         {},
	"Europe":         {},
	"Americas":       {},
	"Oceania":        {},
}

// IsAggregate reports whether name is one of the excluded aggregate labels.
func IsAggregate(name string) bool {
	_, ok := aggregateNames[name]
	return ok
}

// Name cleans a country cell: NFKC folding (non-breaking spaces become
// spaces), footnote removal, stray bracket removal and whitespace trimming.
func Name(s string) string {
	s = norm.NFKC.String(s)
	s = footnotePattern.ReplaceAllString(s, "")
	if i := strings.IndexByte(s, '['); i >= 0 {
		// Unclosed footnote: drop the tail.
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "]", "")
	return strings.TrimSpace(s)
}

// Figure keeps only the digits and decimal points of s and parses the result.
// Empty or unparseable input yields an absent figure.
func Figure(s string) model.Figure {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return model.Absent
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return model.Absent
	}
	return model.Amount(v)
}

// Record normalizes one raw row. It reports false when the row must be
// dropped: empty name, aggregate name, or no figure at all.
func Record(row extract.RawRow) (model.CountryRecord, bool) {
	rec := model.CountryRecord{Name: Name(row.Name)}
	if rec.Name == "" || IsAggregate(rec.Name) {
		return model.CountryRecord{}, false
	}
	if row.HasIMF {
		rec.IMF = Figure(row.IMF)
	}
	if row.HasWorldBank {
		rec.WorldBank = Figure(row.WorldBank)
	}
	if row.HasUN {
		rec.UN = Figure(row.UN)
	}
	if !rec.HasAnyFigure() {
		return model.CountryRecord{}, false
	}
	return rec, true
}

// Rows normalizes rows, preserving order and dropping rejected rows.
func Rows(rows []extract.RawRow) []model.CountryRecord {
	records := make([]model.CountryRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := Record(row); ok {
			records = append(records, rec)
		}
	}
	return records
}

// FromRecord converts a record back into a raw row with every column present.
// Normalizing the result yields the record again, minus its region.
func FromRecord(rec model.CountryRecord) extract.RawRow {
	return extract.RawRow{
		Name:         rec.Name,
		IMF:          rec.IMF.String(),
		WorldBank:    rec.WorldBank.String(),
		UN:           rec.UN.String(),
		HasIMF:       true,
		HasWorldBank: true,
		HasUN:        true,
	}
}
