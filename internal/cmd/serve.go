package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/server"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the record API",
	Long: `Run the HTTP record API that onboarding syncs to.

Routes:
  POST /api/users       create or update a user record by id
  GET  /api/users/{id}  fetch a record
  GET  /healthz         liveness and database check
  GET  /metrics         Prometheus metrics

Records are kept in a SQLite database (server.db). The server stops on
interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		db := cfg.Server.DB
		if serveDB != "" {
			db = serveDB
		}

		logger := slog.Default().With("component", "server")

		repo, err := server.Open(db)
		if err != nil {
			return fmt.Errorf("opening record db: %w", err)
		}
		defer repo.Close()

		srv := server.New(repo, metrics.New(), logger)
		logger.Info("record api listening", "addr", addr, "db", db)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default server.db)")
	rootCmd.AddCommand(serveCmd)
}
