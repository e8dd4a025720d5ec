// Package render draws region buckets as a stacked bar chart and exports
// them as tables.
//
// # Charts
//
// [Chart] renders one bar per region with one stack segment per country,
// using gonum/plot. Bar heights are absolute GDP in US$ million:
//
//	err := render.Chart(w, buckets, model.IMF, format.SVG)
//
// Every country keeps the same colour across regions; colours are sampled
// evenly across a rainbow scale in label order. PNG charts carry a caption
// strip naming the source and unit.
//
// [ShareChart] draws the same bars scaled to 100% with go-chart, showing
// each country's share of its region.
//
// # Tables
//
// [CSV] and [Markdown] write a Region/Country/GDP table, [Text] and
// [RecordsText] write aligned tables with grouped digits, and [XLSX] writes
// a workbook with one sheet per source.
package render
