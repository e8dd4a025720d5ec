package model

import "strconv"

// Figure is a GDP value that may be absent.
type Figure struct {
	Value   float64
	Present bool
}

// Amount returns a present figure holding v.
func Amount(v float64) Figure {
	return Figure{Value: v, Present: true}
}

// Absent is the zero Figure.
var Absent = Figure{}

// Get returns the value and whether it is present.
func (f Figure) Get() (float64, bool) {
	return f.Value, f.Present
}

// String formats a present figure without exponent; absent figures are empty.
func (f Figure) String() string {
	if !f.Present {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// CountryRecord is one normalized row of the GDP table.
type CountryRecord struct {
	Name      string
	IMF       Figure
	WorldBank Figure
	UN        Figure
	Region    string // empty until a region lookup is applied
}

// Figure returns the figure reported by src.
func (c CountryRecord) Figure(src Source) Figure {
	switch src {
	case IMF:
		return c.IMF
	case WorldBank:
		return c.WorldBank
	case UN:
		return c.UN
	default:
		return Absent
	}
}

// HasAnyFigure reports whether at least one source has a value.
func (c CountryRecord) HasAnyFigure() bool {
	return c.IMF.Present || c.WorldBank.Present || c.UN.Present
}

// Row renders the record back into raw cell text in
// Country, IMF, World Bank, UN order.
func (c CountryRecord) Row() []string {
	return []string{c.Name, c.IMF.String(), c.WorldBank.String(), c.UN.String()}
}
