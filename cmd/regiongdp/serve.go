package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsawler/regiongdp/internal/server"
)

var serveFlags struct {
	host string
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive chart page",
	Long: `Serve starts an HTTP server with a source picker and the regional chart.
The article is downloaded on the first request and reused afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, loader, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(serveFlags.host, serveFlags.port, loader, &logger)
		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", srv.Addr())
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.host, "host", server.DefaultHost, "listen host")
	serveCmd.Flags().IntVar(&serveFlags.port, "port", server.DefaultPort, "listen port")
}
