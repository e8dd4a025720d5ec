// Package model defines the data types that flow through the GDP pipeline.
//
// The pipeline produces two kinds of values:
//
//   - [CountryRecord] - one normalized row of the Wikipedia GDP table, with
//     one [Figure] per reporting [Source]
//   - [RegionBucket] - the per-region series fed to a stacked bar chart,
//     made of [Entry] values sorted by GDP with an optional "Other (rest)"
//     aggregate last
//
// # Sources
//
// The three reporting bodies are modelled by [Source]:
//
//	src, err := model.ParseSource("World Bank")
//	value, ok := record.Figure(src).Get()
//
// # Figures
//
// A [Figure] distinguishes an absent value from zero. Absent figures come from
// missing columns, empty cells and cells that do not parse as numbers.
//
// # Tables
//
// The [Table] type is a flat grid of [Cell] values with export methods
// ToMarkdown() and ToCSV(). [BucketsTable] flattens region buckets into a
// Region/Country/GDP table.
package model
