package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tvernaillen/filesorter/internal/platform"
	"github.com/tvernaillen/filesorter/pkg/category"
	"github.com/tvernaillen/filesorter/pkg/config"
	"github.com/tvernaillen/filesorter/pkg/history"
	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
)

// validateSortFlags validates the sort command flags
func validateSortFlags() error {
	if err := platform.ValidatePath(sortFlags.Directory); err != nil {
		return err
	}
	sortFlags.Directory = platform.NormalizePath(sortFlags.Directory)

	info, err := os.Stat(sortFlags.Directory)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", sortFlags.Directory)
	} else if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory: %s", sortFlags.Directory)
	}

	validOutputs := map[string]bool{"human": true, "json": true}
	if !validOutputs[sortFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", sortFlags.Output)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// saveConfig writes the configuration back to the path it was loaded from
func saveConfig(cfg *config.Config) error {
	path := globalFlags.ConfigFile
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}
	return config.SaveToFile(cfg, path)
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if sortFlags.Preview {
		cfg.Sort.Preview = true
	}
	if sortFlags.Backup {
		cfg.Sort.Backup = true
	}

	// Output format
	if sortFlags.Output != "" {
		cfg.Output.Format = sortFlags.Output
	}

	if sortFlags.NoProgress {
		cfg.Output.Progress = false
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// buildRegistry returns the category table, with custom categories from
// the configuration layered on top of the built-in defaults
func buildRegistry(cfg *config.Config) *category.Registry {
	registry := category.NewRegistry()
	if len(cfg.Categories) > 0 {
		registry.Merge(cfg.Categories)
	}
	return registry
}

// createSortOperation creates a sort operation from configuration
func createSortOperation(cfg *config.Config) (*models.SortOperation, error) {
	operation := &models.SortOperation{
		ID:        uuid.New().String(),
		Directory: sortFlags.Directory,
		Preview:   cfg.Sort.Preview,
		Backup:    cfg.Sort.Backup,
		CreatedAt: time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createLogger creates a logger based on flags. A log file wins over
// console logging; verbose without a file logs to stderr
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	if logFile == "" {
		if globalFlags.Verbose {
			return logging.NewConsoleLogger(nil, logging.ParseLevel(logLevel)), nil
		}
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	cfg := logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	}

	return logging.NewFileLogger(cfg)
}

// loadHistory loads the persisted pass history from its default location
func loadHistory() (*history.History, string, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return nil, "", err
	}

	h, err := history.Load(path)
	if err != nil {
		return nil, "", err
	}

	return h, path, nil
}
