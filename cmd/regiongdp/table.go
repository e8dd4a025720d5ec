package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
	"github.com/tsawler/regiongdp/render"
)

var tableFlags struct {
	source  string
	format  string
	records bool
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the regional GDP table",
	Long:  "Table prints the per-region entries for one source as text, CSV or Markdown.",
	Example: `  regiongdp table --source un
  regiongdp table --source world_bank --format markdown
  regiongdp table --records --format csv`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVarP(&tableFlags.source, "source", "s", model.IMF.Key(), "GDP source (imf, un, world_bank)")
	tableCmd.Flags().StringVarP(&tableFlags.format, "format", "f", "text", "output format (text, csv, markdown)")
	tableCmd.Flags().BoolVar(&tableFlags.records, "records", false, "print every normalized country record instead of region buckets")
}

func runTable(cmd *cobra.Command, args []string) error {
	src, err := model.ParseSource(tableFlags.source)
	if err != nil {
		return err
	}
	f := format.Parse(tableFlags.format)
	switch f {
	case format.Text, format.CSV, format.Markdown:
	default:
		return fmt.Errorf("unsupported table format %q", tableFlags.format)
	}

	_, loader, err := setup(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if tableFlags.records {
		records, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		records = loader.Lookup().Assign(records)
		switch f {
		case format.CSV:
			_, err = fmt.Fprint(out, model.RecordsTable(records).ToCSV())
		case format.Markdown:
			_, err = fmt.Fprint(out, model.RecordsTable(records).ToMarkdown())
		default:
			err = render.RecordsText(out, records)
		}
		return err
	}

	buckets, err := loader.LoadAndSelect(cmd.Context(), src)
	if err != nil {
		return err
	}
	return render.Table(out, buckets, src, f)
}
