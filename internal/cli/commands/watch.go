package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-normalize .sql files as they change",
		Long: `Watch a directory tree and write a normalized copy of every .sql file
that changes into the output directory. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			hint, err := cfg.ResolveDialect()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Watch.OutDir
			}
			if err := os.MkdirAll(outDir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watchSQLFiles(ctx, args[0], outDir, hint, logger)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory for normalized files")

	return cmd
}

// watchSQLFiles blocks watching dir until ctx is cancelled.
func watchSQLFiles(ctx context.Context, dir, outDir string, hint dialect.ID, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logger.Info("watching for .sql changes", "dir", dir, "out", outDir)

	pipeline := normalize.New(normalize.WithLogger(logger))

	// Debounce per file: editors fire several events per save.
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".sql" {
				continue
			}

			name := event.Name
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(100*time.Millisecond, func() {
				if err := normalizeFile(pipeline, name, outDir, hint); err != nil {
					logger.Error("normalize failed", "file", name, "error", err)
					return
				}
				logger.Info("normalized", "file", name)
			})

		case err := <-watcher.Errors:
			logger.Error("watcher error", "error", err)
		}
	}
}

// normalizeFile writes the normalized form of path into outDir under the
// same base name.
func normalizeFile(pipeline *normalize.Pipeline, path, outDir string, hint dialect.ID) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, res := range pipeline.NormalizeScript(string(data), hint) {
		b.WriteString(res.SQL)
		b.WriteString(";\n\n")
	}

	dest := filepath.Join(outDir, filepath.Base(path))
	return os.WriteFile(dest, []byte(b.String()), 0600)
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
