package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/sqlnorm/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve exposes detection, normalization, and splitting over HTTP.
Requests are JSON posts to /api/v1/detect, /api/v1/normalize, and
/api/v1/split with a "sql" field and an optional "dialect" field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Host:          cfg.Server.Host,
				Port:          cfg.Server.Port,
				MaxBodyBytes:  cfg.Server.MaxBodyBytes,
				MaxStatements: cfg.Server.MaxStatements,
				Logger:        logger,
			})
			return srv.Serve(ctx)
		},
	}
}
