package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/regiongdp"
	"github.com/tsawler/regiongdp/fetch"
	"github.com/tsawler/regiongdp/format"
	"github.com/tsawler/regiongdp/region"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	url      string
	file     string
	browser  bool
	top      int
	logLevel string
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:   "regiongdp",
	Short: "Chart nominal GDP by world region",
	Long: `regiongdp downloads the Wikipedia list of countries by nominal GDP,
groups the countries into regions and renders a stacked bar chart with one
bar per region. Each region shows its largest economies and one
"Other (rest)" segment for the remainder.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.url, "url", regiongdp.DefaultURL, "article URL")
	pf.StringVar(&flags.file, "file", "", "read the article from a saved HTML file instead of downloading it")
	pf.BoolVar(&flags.browser, "browser", false, "load the article in a headless browser")
	pf.IntVar(&flags.top, "top", region.DefaultTopN, "countries shown per region before the rest is collapsed")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tablesCmd)
}

// newLogger builds a console logger on w at the requested level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// newFetcher returns the page source selected by the global flags.
func newFetcher() (fetch.Fetcher, error) {
	switch {
	case flags.file != "" && flags.browser:
		return nil, fmt.Errorf("--file and --browser cannot be combined")
	case flags.file != "":
		return fileFetcher(flags.file), nil
	case flags.browser:
		return fetch.NewBrowserFetcher(), nil
	default:
		return fetch.NewHTTPFetcher(), nil
	}
}

// newLoader builds the loader described by the global flags.
func newLoader(logger zerolog.Logger) (*regiongdp.Loader, error) {
	if flags.top < 1 {
		return nil, fmt.Errorf("--top must be at least 1, got %d", flags.top)
	}
	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}

	return regiongdp.New(
		regiongdp.WithURL(flags.url),
		regiongdp.WithFetcher(fetcher),
		regiongdp.WithTopN(flags.top),
		regiongdp.WithLogger(logger),
	), nil
}

// fileFetcher serves a saved copy of the article regardless of the URL.
func fileFetcher(path string) fetch.Fetcher {
	return fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if !format.IsHTML(data) {
			return "", fmt.Errorf("%s does not look like HTML", path)
		}
		return string(data), nil
	})
}

// setup builds the logger and loader for a subcommand.
func setup(cmd *cobra.Command) (zerolog.Logger, *regiongdp.Loader, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), flags.logLevel)
	if err != nil {
		return logger, nil, err
	}
	loader, err := newLoader(logger)
	if err != nil {
		return logger, nil, err
	}
	return logger, loader, nil
}
