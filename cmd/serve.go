package cmd

import (
	"log/slog"

	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local studio API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.newStudio(ctx)
		if err != nil {
			return err
		}
		defer st.Wait()

		host, port := cfg.Server.Host, cfg.Server.Port
		if serveHost != "" {
			host = serveHost
		}
		if servePort != "" {
			port = servePort
		}

		srv := server.New(st, library.NewResolver())
		slog.Info("Starting studio API server", "host", host, "port", port, "storage", cfg.Storage.Type, "history", cfg.History.Backend)
		return srv.Start(ctx, host, port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen address (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
