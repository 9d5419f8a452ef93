package config

import (
	"github.com/tvernaillen/filesorter/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sort    SortConfig    `yaml:"sort"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	// Categories maps category names to the extensions they claim.
	// Entries here replace the built-in table for the named categories
	Categories map[string][]string `yaml:"categories,omitempty"`

	// LastDirectory is the directory of the most recent pass
	LastDirectory string `yaml:"last_directory,omitempty"`
}

// SortConfig holds sorting-related settings
type SortConfig struct {
	Preview bool `yaml:"preview"` // Default to preview mode
	Backup  bool `yaml:"backup"`  // Snapshot the directory before moving
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			Preview: false,
			Backup:  false,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	for name, exts := range c.Categories {
		if name == "" {
			return &models.ValidationError{
				Field:   "categories",
				Message: "category name must not be empty",
			}
		}
		if len(exts) == 0 {
			return &models.ValidationError{
				Field:   "categories." + name,
				Message: "must claim at least one extension",
			}
		}
	}

	return nil
}
