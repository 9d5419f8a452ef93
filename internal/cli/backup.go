package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tvernaillen/filesorter/pkg/history"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/ratelimit"
	"github.com/tvernaillen/filesorter/pkg/sorter"
)

// NewBackupCommand creates the backup command
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot a directory or restore the last snapshot",
	}

	cmd.AddCommand(newBackupCreateCommand())
	cmd.AddCommand(newBackupRestoreCommand())
	cmd.AddCommand(newBackupVerifyCommand())

	return cmd
}

func newBackupCreateCommand() *cobra.Command {
	var directory string
	var bandwidth string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Copy the top-level files of a directory into a sibling snapshot folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rate, err := ratelimit.ParseRate(bandwidth)
			if err != nil {
				return err
			}

			hist, histPath, err := loadHistory()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			mgr := sorter.NewBackupManager()
			mgr.SetRateLimit(rate)
			backupDir, err := mgr.Create(ctx, directory)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			hist.SetBackup(backupDir, directory)
			if err := history.Save(hist, histPath); err != nil {
				return fmt.Errorf("failed to save history: %w", err)
			}

			fmt.Printf("Backup created: %s\n", backupDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "directory to snapshot (required)")
	cmd.MarkFlagRequired("directory")
	cmd.Flags().StringVarP(&bandwidth, "bandwidth", "b", "", "copy bandwidth limit (e.g., \"10M\", \"1G\")")

	return cmd
}

func newBackupRestoreCommand() *cobra.Command {
	var logFile, logFormat, logLevel string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Copy the files of the last snapshot back into their directory",
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

			hist, _, err := loadHistory()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if hist.Backup == nil {
				return models.ErrNoBackup
			}

			mgr := sorter.NewBackupManager()
			mgr.SetLast(hist.Backup.Path, hist.Backup.SourceDir)

			report, err := mgr.Restore(ctx, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Restored %d file(s) from %s\n", report.Restored, hist.Backup.Path)
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

func newBackupVerifyCommand() *cobra.Command {
	var logFile, logFormat, logLevel string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the last snapshot against its source directory",
		Long: `Compare every file of the last snapshot with the file of the same
name in the source directory using SHA-256. Files that moved or changed
since the snapshot are reported as missing or mismatched.`,
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

			hist, _, err := loadHistory()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if hist.Backup == nil {
				return models.ErrNoBackup
			}

			mgr := sorter.NewBackupManager()
			mgr.SetLast(hist.Backup.Path, hist.Backup.SourceDir)

			report, err := mgr.Verify(ctx, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Verified %s against %s\n", hist.Backup.Path, hist.Backup.SourceDir)
			fmt.Printf("  Matched:    %d\n", report.Matched)
			fmt.Printf("  Mismatched: %d\n", report.Mismatched)
			fmt.Printf("  Missing:    %d\n", report.Missing)
			fmt.Printf("  Errored:    %d\n", report.Errored)
			for _, p := range report.Problems {
				fmt.Printf("  %s: %s\n", p.FilePath, p.Error)
			}
			if report.Clean() {
				fmt.Println("Snapshot matches the directory.")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}
