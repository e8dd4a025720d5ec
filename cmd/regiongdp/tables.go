package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/regiongdp/extract"
	"github.com/tsawler/regiongdp/htmldoc"
)

var tablesFlags struct {
	excludeNav bool
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List every table of the article",
	Long: `Tables prints every table found on the article page as Markdown, in
document order, and marks the one the GDP extractor selects. Use it to see
why extraction fails after the article layout changes.`,
	Example: `  regiongdp tables --file saved.html
  regiongdp tables --exclude-nav`,
	Args: cobra.NoArgs,
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().BoolVar(&tablesFlags.excludeNav, "exclude-nav", false, "hide navigation, sidebar and navbox tables")
}

func runTables(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), flags.logLevel)
	if err != nil {
		return err
	}
	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	page, err := fetcher.Fetch(cmd.Context(), flags.url)
	if err != nil {
		return err
	}

	selected, err := extract.FromHTML(page)
	if err != nil && !errors.Is(err, extract.ErrNoTableFound) {
		return err
	}

	opts := htmldoc.DefaultOptions()
	if tablesFlags.excludeNav {
		opts.Navigation = htmldoc.NavigationExclusionStandard
	}
	doc, err := htmldoc.OpenReaderWithOptions(strings.NewReader(page), opts)
	if err != nil {
		return err
	}
	defer doc.Close()

	out := cmd.OutOrStdout()
	tables := doc.Tables()
	fmt.Fprintf(out, "# %s\n\n%d tables\n", doc.Title(), len(tables))
	for i, t := range tables {
		heading := fmt.Sprintf("## Table %d", i+1)
		if t.Caption != "" {
			heading += ": " + t.Caption
		}
		if selected != nil && sameTable(t, selected.Table) {
			heading += " (GDP table)"
		}
		fmt.Fprintf(out, "\n%s\n\n%s", heading, t.ToMarkdown())
	}
	if selected == nil {
		logger.Warn().Msg("no table has an IMF column")
	}
	return nil
}

// sameTable matches tables from two parses of the same page.
func sameTable(a, b *htmldoc.ParsedTable) bool {
	return a.Caption == b.Caption &&
		len(a.Rows) == len(b.Rows) &&
		strings.Join(a.ColumnLabels(), "|") == strings.Join(b.ColumnLabels(), "|")
}
