package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/model"
	"github.com/tsawler/regiongdp/render"
)

var renderFlags struct {
	source string
	output string
	format string
	share  bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the regional GDP chart or table to a file",
	Long: `Render writes the chart for one source to a file. The format follows the
file extension (.svg, .png, .csv, .md, .xlsx, .txt) unless --format is given.
XLSX workbooks hold one sheet per source plus the normalized country records.`,
	Example: `  regiongdp render --source imf -o chart.svg
  regiongdp render --source un -o chart.png
  regiongdp render --source un --share -o shares.svg
  regiongdp render -o gdp.xlsx`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFlags.source, "source", "s", model.IMF.Key(), "GDP source (imf, un, world_bank)")
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "gdp.svg", "output file")
	renderCmd.Flags().StringVarP(&renderFlags.format, "format", "f", "", "output format, overriding the file extension")
	renderCmd.Flags().BoolVar(&renderFlags.share, "share", false, "chart each country's share of its region instead of absolute GDP")
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := model.ParseSource(renderFlags.source)
	if err != nil {
		return err
	}
	f, err := outputFormat(renderFlags.output, renderFlags.format)
	if err != nil {
		return err
	}
	if renderFlags.share && !f.IsChart() {
		return fmt.Errorf("--share needs an SVG or PNG output, got %s", f)
	}

	logger, loader, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var buf bytes.Buffer
	switch {
	case f == format.XLSX:
		records, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		series := make([]render.Series, 0, len(model.Sources))
		for _, s := range model.Sources {
			buckets, err := loader.LoadAndSelect(ctx, s)
			if err != nil {
				return err
			}
			series = append(series, render.Series{Source: s, Buckets: buckets})
		}
		if err := render.XLSX(&buf, records, series...); err != nil {
			return err
		}

	case f.IsChart():
		buckets, err := loader.LoadAndSelect(ctx, src)
		if err != nil {
			return err
		}
		draw := render.Chart
		if renderFlags.share {
			draw = render.ShareChart
		}
		if err := draw(&buf, buckets, src, f); err != nil {
			return err
		}

	default:
		buckets, err := loader.LoadAndSelect(ctx, src)
		if err != nil {
			return err
		}
		if err := render.Table(&buf, buckets, src, f); err != nil {
			return err
		}
	}

	if err := os.WriteFile(renderFlags.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", renderFlags.output, err)
	}
	logger.Info().Str("file", renderFlags.output).Str("format", f.String()).Int("bytes", buf.Len()).Msg("wrote output")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %s)\n", renderFlags.output, f, src)
	return nil
}

// outputFormat resolves the format from an explicit name or the file extension.
func outputFormat(output, name string) (format.Format, error) {
	if name != "" {
		f := format.Parse(name)
		if f == format.Unknown {
			return f, fmt.Errorf("unknown format %q", name)
		}
		return f, nil
	}
	f := format.Detect(output)
	if f == format.Unknown {
		return f, fmt.Errorf("cannot tell the format of %q; use --format", output)
	}
	return f, nil
}
