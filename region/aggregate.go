package region

import (
	"cmp"
	"slices"

	"github.com/tsawler/regiongdp/model"
)

// DefaultTopN is the number of named countries kept per region.
const DefaultTopN = 10

// Aggregator builds the stacked-bar series for one source.
type Aggregator struct {
	Lookup Lookup
	TopN   int // values below 1 mean DefaultTopN
}

// NewAggregator returns an Aggregator using lookup and DefaultTopN.
func NewAggregator(lookup Lookup) *Aggregator {
	return &Aggregator{Lookup: lookup, TopN: DefaultTopN}
}

func (a *Aggregator) topN() int {
	if a.TopN < 1 {
		return DefaultTopN
	}
	return a.TopN
}

// Aggregate assigns regions, keeps the records that have a figure for src,
// and returns one bucket per non-empty region ordered by region name.
//
// Within a bucket the largest TopN countries appear in descending order of
// value (ties broken by name). The remaining countries, if any, are summed
// into a single model.RestLabel entry placed last whatever its size.
func (a *Aggregator) Aggregate(records []model.CountryRecord, src model.Source) []model.RegionBucket {
	groups := make(map[string][]model.Entry)
	for _, rec := range a.Lookup.Assign(records) {
		v, ok := rec.Figure(src).Get()
		if !ok {
			continue
		}
		groups[rec.Region] = append(groups[rec.Region], model.Entry{Label: rec.Name, Value: v})
	}

	regions := make([]string, 0, len(groups))
	for r := range groups {
		regions = append(regions, r)
	}
	slices.Sort(regions)

	n := a.topN()
	buckets := make([]model.RegionBucket, 0, len(regions))
	for _, r := range regions {
		entries := groups[r]
		slices.SortStableFunc(entries, func(x, y model.Entry) int {
			if c := cmp.Compare(y.Value, x.Value); c != 0 {
				return c
			}
			return cmp.Compare(x.Label, y.Label)
		})

		if len(entries) > n {
			var rest float64
			for _, e := range entries[n:] {
				rest += e.Value
			}
			entries = append(entries[:n:n], model.Entry{Label: model.RestLabel, Value: rest, Rest: true})
		}

		buckets = append(buckets, model.RegionBucket{Region: r, Entries: entries})
	}
	return buckets
}
