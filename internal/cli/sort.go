package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tvernaillen/filesorter/pkg/history"
	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/output"
	"github.com/tvernaillen/filesorter/pkg/ratelimit"
	"github.com/tvernaillen/filesorter/pkg/sorter"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

// SortFlags holds sort command flags
type SortFlags struct {
	Directory  string
	Preview    bool
	Backup     bool
	NoProgress bool
	Output     string
	Bandwidth  string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var sortFlags SortFlags

// NewSortCommand creates the sort command
func NewSortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort the files of a directory into category folders",
		Long: `Classify the top-level files of a directory by extension and move
each into its category subfolder (Images, Documents, Videos, ...).
Files without a matching category land in Others. Use --preview to see
the plan without touching anything.`,
		RunE: runSort,
	}

	cmd.Flags().StringVarP(&sortFlags.Directory, "directory", "d", "", "directory to sort (required)")
	cmd.MarkFlagRequired("directory")

	cmd.Flags().BoolVarP(&sortFlags.Preview, "preview", "p", false, "show what would be moved without moving anything")
	cmd.Flags().BoolVarP(&sortFlags.Backup, "backup", "b", false, "snapshot the directory before moving files")
	cmd.Flags().BoolVar(&sortFlags.NoProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().StringVarP(&sortFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().StringVar(&sortFlags.Bandwidth, "bandwidth", "", "copy bandwidth limit (e.g., \"10M\", \"1G\")")

	// Logging flags
	cmd.Flags().StringVar(&sortFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&sortFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&sortFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateSortFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cfg)

	// Create sort operation
	operation, err := createSortOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create sort operation: %w", err)
	}

	// Create logger
	logger, err := createLogger(sortFlags.LogFile, sortFlags.LogFormat, sortFlags.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	hist, histPath, err := loadHistory()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	rate, err := ratelimit.ParseRate(sortFlags.Bandwidth)
	if err != nil {
		return err
	}

	// Snapshot first so a failed pass is still restorable
	if operation.Backup && !operation.Preview {
		mgr := sorter.NewBackupManager()
		mgr.SetRateLimit(rate)
		backupDir, err := mgr.Create(ctx, sortFlags.Directory)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		hist.SetBackup(backupDir, sortFlags.Directory)
		if !cfg.Output.Quiet {
			fmt.Printf("Backup created: %s\n", backupDir)
		}
	}

	// Create storage backend rooted at the directory
	store, err := storage.NewLocal(sortFlags.Directory)
	if err != nil {
		return fmt.Errorf("failed to open directory: %w", err)
	}
	defer store.Close()
	store.SetRateLimit(rate)

	// Create output formatter
	var formatter output.Formatter
	switch cfg.Output.Format {
	case "json":
		formatter = output.NewJSONFormatter()
	default:
		if cfg.Output.Progress && !operation.Preview {
			formatter = output.NewProgressFormatter()
		} else {
			formatter = output.NewHumanFormatter()
		}
	}

	// Create sort engine
	registry := buildRegistry(cfg)
	undo := sorter.NewUndoLog()
	engine := sorter.NewEngine(store, registry, undo, formatter, logger, operation)

	// Run the pass
	report, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("sort failed: %w", err)
	}

	// Persist the undo slot and last directory after a real pass
	if !operation.Preview {
		if undo.Len() > 0 {
			hist.SetPass(operation.ID, sortFlags.Directory, undo.Moves())
		}
		if err := history.Save(hist, histPath); err != nil {
			logger.Warn(ctx, "failed to save history", logging.Fields{"error": err.Error()})
		}

		cfg.LastDirectory = sortFlags.Directory
		if err := saveConfig(cfg); err != nil {
			logger.Warn(ctx, "failed to save config", logging.Fields{"error": err.Error()})
		}
	}

	// Exit with appropriate code
	os.Exit(report.Status.ExitCode())
	return nil
}
