package model

// RestLabel is the label of the aggregate entry that collapses the countries
// beyond the top N of a region.
const RestLabel = "Other (rest)"

// Entry is one stack segment of a region bar.
type Entry struct {
	Label string
	Value float64
	Rest  bool // true for the RestLabel aggregate
}

// RegionBucket is the series of one region bar.
// Entries are sorted by value descending, except that a Rest entry is last.
type RegionBucket struct {
	Region  string
	Entries []Entry
}

// Total returns the sum of all entry values.
func (b RegionBucket) Total() float64 {
	var sum float64
	for _, e := range b.Entries {
		sum += e.Value
	}
	return sum
}

// Countries returns the number of named (non-aggregate) entries.
func (b RegionBucket) Countries() int {
	n := 0
	for _, e := range b.Entries {
		if !e.Rest {
			n++
		}
	}
	return n
}

// Rest returns the aggregate entry, if any.
func (b RegionBucket) Rest() (Entry, bool) {
	if len(b.Entries) == 0 {
		return Entry{}, false
	}
	last := b.Entries[len(b.Entries)-1]
	return last, last.Rest
}
