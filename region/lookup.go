// Package region groups country records into regions and reduces each region
// to its top N countries plus an "Other (rest)" aggregate.
package region

import "github.com/tsawler/regiongdp/model"

// Unmapped is the region assigned to countries missing from a Lookup.
const Unmapped = "Other"

// defaultRegions is the hand-authored table used by Default.
var defaultRegions = map[string]string{
	"United States": "North America", "Canada": "North America", "Mexico": "North America",

	"Brazil": "South America", "Argentina": "South America", "Chile": "South America",
	"Colombia": "South America", "Peru": "South America", "Venezuela": "South America",

	"Germany": "Europe", "France": "Europe", "Italy": "Europe", "United Kingdom": "Europe",
	"Spain": "Europe", "Netherlands": "Europe", "Sweden": "Europe", "Poland": "Europe",
	"Ukraine": "Europe", "Switzerland": "Europe",

	"Russia": "Europe/Asia", "Turkey": "Europe/Asia",

	"China": "Asia", "Japan": "Asia", "India": "Asia", "Indonesia": "Asia",
	"South Korea": "Asia", "Saudi Arabia": "Asia", "Thailand": "Asia", "Malaysia": "Asia",
	"Vietnam": "Asia", "Philippines": "Asia", "Singapore": "Asia",

	"South Africa": "Africa", "Egypt": "Africa", "Nigeria": "Africa", "Kenya": "Africa",
	"Ethiopia": "Africa", "Ghana": "Africa", "Algeria": "Africa", "Morocco": "Africa",

	"Australia": "Oceania", "New Zealand": "Oceania",

	"United Arab Emirates": "Middle East", "Israel": "Middle East",
	"Qatar": "Middle East", "Kuwait": "Middle East",
}

// Lookup maps country names to region names. The zero value maps every
// country to Unmapped. A Lookup is never modified after construction and is
// safe for concurrent use.
type Lookup struct {
	regions map[string]string
}

// NewLookup returns a Lookup holding a copy of regions.
func NewLookup(regions map[string]string) Lookup {
	m := make(map[string]string, len(regions))
	for country, region := range regions {
		m[country] = region
	}
	return Lookup{regions: m}
}

var defaultLookup = NewLookup(defaultRegions)

// Default returns the built-in country to region table.
func Default() Lookup {
	return defaultLookup
}

// Region returns the region of country, or Unmapped.
func (l Lookup) Region(country string) string {
	if r, ok := l.regions[country]; ok {
		return r
	}
	return Unmapped
}

// Len returns the number of mapped countries.
func (l Lookup) Len() int {
	return len(l.regions)
}

// With returns a new Lookup with extra mappings added on top of l.
func (l Lookup) With(extra map[string]string) Lookup {
	m := make(map[string]string, len(l.regions)+len(extra))
	for country, region := range l.regions {
		m[country] = region
	}
	for country, region := range extra {
		m[country] = region
	}
	return Lookup{regions: m}
}

// Assign returns copies of records with Region set from the lookup.
func (l Lookup) Assign(records []model.CountryRecord) []model.CountryRecord {
	out := make([]model.CountryRecord, len(records))
	for i, rec := range records {
		rec.Region = l.Region(rec.Name)
		out[i] = rec
	}
	return out
}
