package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
)

// Series is one source's buckets, written as one workbook sheet.
type Series struct {
	Source  model.Source
	Buckets []model.RegionBucket
}

// RecordsSheet is the name of the workbook sheet holding normalized records.
const RecordsSheet = "Countries"

// numberFormat is the built-in excelize format "#,##0.00".
const numberFormat = 4

// CSV writes buckets as a Region,Country,GDP table.
func CSV(w io.Writer, buckets []model.RegionBucket) error {
	_, err := io.WriteString(w, model.BucketsTable(buckets).ToCSV())
	return err
}

// Markdown writes buckets as a Markdown table.
func Markdown(w io.Writer, buckets []model.RegionBucket) error {
	_, err := io.WriteString(w, model.BucketsTable(buckets).ToMarkdown())
	return err
}

// Text writes an aligned table with English digit grouping and a total per
// region.
func Text(w io.Writer, buckets []model.RegionBucket, src model.Source) error {
	p := message.NewPrinter(language.English)

	rows := [][]string{{"Region", "Country", Unit}}
	for _, b := range buckets {
		for _, e := range b.Entries {
			rows = append(rows, []string{b.Region, e.Label, p.Sprintf("%.1f", e.Value)})
		}
		rows = append(rows, []string{"", "Total", p.Sprintf("%.1f", b.Total())})
	}
	return writeAligned(w, Title(src), rows, 2)
}

// RecordsText writes normalized records as an aligned table. Absent figures
// are shown as "-".
func RecordsText(w io.Writer, records []model.CountryRecord) error {
	p := message.NewPrinter(language.English)

	rows := [][]string{{"Country", model.IMF.String(), model.WorldBank.String(), model.UN.String(), "Region"}}
	for _, r := range records {
		row := []string{r.Name}
		for _, src := range []model.Source{model.IMF, model.WorldBank, model.UN} {
			if v, ok := r.Figure(src).Get(); ok {
				row = append(row, p.Sprintf("%.1f", v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, append(row, r.Region))
	}
	return writeAligned(w, "GDP by Country "+Unit, rows, 1, 2, 3)
}

// writeAligned pads every column to its widest cell, right-aligning the
// numeric columns, and writes title and rows in a single write.
func writeAligned(w io.Writer, title string, rows [][]string, numeric ...int) error {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}

	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(cell))
		}
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for _, row := range rows {
		var line strings.Builder
		for c, cell := range row {
			if c > 0 {
				line.WriteString("  ")
			}
			pad := strings.Repeat(" ", widths[c]-utf8.RuneCountInString(cell))
			if right[c] {
				line.WriteString(pad + cell)
			} else {
				line.WriteString(cell + pad)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// XLSX writes a workbook with one sheet per series and, when records is
// non-empty, a sheet of normalized records.
func XLSX(w io.Writer, records []model.CountryRecord, series ...Series) error {
	if len(series) == 0 && len(records) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{NumFmt: numberFormat})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}

	first := ""
	for _, s := range series {
		name := s.Source.String()
		if err := addSheet(f, &first, name); err != nil {
			return err
		}
		if err := writeBuckets(f, name, s.Buckets, style); err != nil {
			return err
		}
	}
	if len(records) > 0 {
		if err := addSheet(f, &first, RecordsSheet); err != nil {
			return err
		}
		if err := writeRecords(f, RecordsSheet, records, style); err != nil {
			return err
		}
	}

	if idx, err := f.GetSheetIndex(first); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// addSheet renames the default sheet for the first call and appends new
// sheets afterwards.
func addSheet(f *excelize.File, first *string, name string) error {
	if *first == "" {
		*first = name
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("naming sheet %q: %w", name, err)
		}
		return nil
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("adding sheet %q: %w", name, err)
	}
	return nil
}

func writeBuckets(f *excelize.File, sheet string, buckets []model.RegionBucket, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Region", "Country", Unit}); err != nil {
		return err
	}
	row := 2
	for _, b := range buckets {
		for _, e := range b.Entries {
			cell := "A" + strconv.Itoa(row)
			if err := f.SetSheetRow(sheet, cell, &[]any{b.Region, e.Label, e.Value}); err != nil {
				return err
			}
			row++
		}
	}
	if row > 2 {
		if err := f.SetCellStyle(sheet, "C2", "C"+strconv.Itoa(row-1), style); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 20)
}

func writeRecords(f *excelize.File, sheet string, records []model.CountryRecord, style int) error {
	header := []any{"Country"}
	for _, src := range []model.Source{model.IMF, model.WorldBank, model.UN} {
		header = append(header, src.String())
	}
	header = append(header, "Region")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range records {
		values := []any{r.Name}
		for _, src := range []model.Source{model.IMF, model.WorldBank, model.UN} {
			if v, ok := r.Figure(src).Get(); ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		values = append(values, r.Region)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "B2", "D"+strconv.Itoa(len(records)+1), style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "E", 18)
}

// Table writes buckets in one of the tabular formats.
func Table(w io.Writer, buckets []model.RegionBucket, src model.Source, f format.Format) error {
	switch f {
	case format.CSV:
		return CSV(w, buckets)
	case format.Markdown:
		return Markdown(w, buckets)
	case format.Text, format.Unknown:
		return Text(w, buckets, src)
	case format.XLSX:
		return XLSX(w, nil, Series{Source: src, Buckets: buckets})
	default:
		return fmt.Errorf("%w for tables: %s", ErrUnsupportedFormat, f)
	}
}
