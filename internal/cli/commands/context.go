// Package commands implements the sqlnorm subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqlnorm/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigKey is the context key under which the root command stores the
// loaded configuration.
type ConfigKey struct{}

// LoggerKey is the context key under which the root command stores the logger.
type LoggerKey struct{}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(ConfigKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Format: config.DefaultFormat,
		Server: config.ServerConfig{
			Host:          config.DefaultServerHost,
			Port:          config.DefaultServerPort,
			MaxBodyBytes:  config.DefaultMaxBodyBytes,
			MaxStatements: config.DefaultMaxStatements,
		},
		Watch: config.WatchConfig{OutDir: config.DefaultWatchOutDir},
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// readInput returns the SQL text for a command: the named file when an
// argument is given, stdin otherwise.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// renderYAML writes v as YAML.
func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
