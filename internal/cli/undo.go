package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tvernaillen/filesorter/pkg/history"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/sorter"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

// NewUndoCommand creates the undo command
func NewUndoCommand() *cobra.Command {
	var logFile, logFormat, logLevel string

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Move the files of the last sort back where they came from",
		Long: `Reverse the most recent sort pass: every moved file is returned to
its original location. Only one pass is remembered; running undo
consumes it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger, err := createLogger(logFile, logFormat, logLevel)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Close()

			hist, histPath, err := loadHistory()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if hist.Pass == nil || len(hist.Pass.Moves) == 0 {
				return models.ErrNoUndo
			}

			store, err := storage.NewLocal(hist.Pass.Directory)
			if err != nil {
				return fmt.Errorf("failed to open directory: %w", err)
			}
			defer store.Close()

			undo := sorter.NewUndoLog()
			undo.Record(hist.Pass.Moves)

			report, err := undo.Apply(ctx, store, logger)
			if err != nil {
				if errors.Is(err, models.ErrNoUndo) {
					return err
				}
				return fmt.Errorf("undo failed: %w", err)
			}

			directory := hist.Pass.Directory

			// The slot is consumed even when some files failed to move back
			hist.ClearPass()
			if err := history.Save(hist, histPath); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}

			fmt.Printf("Restored %d file(s) in %s\n", report.Restored, directory)
			if report.Errored > 0 {
				fmt.Printf("Failed to restore %d file(s):\n", report.Errored)
				for _, e := range report.Errors {
					fmt.Printf("  %s: %s\n", e.FilePath, e.Error)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}
