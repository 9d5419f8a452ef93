// Package history persists the most recent pass and backup between
// invocations. The sorter core keeps its undo slot in memory only; the
// command layer rehydrates it from here.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tvernaillen/filesorter/pkg/models"
)

// Version is bumped when the on-disk layout changes
const Version = 1

// PassRecord captures the moves of the most recent non-preview pass
type PassRecord struct {
	ID        string              `yaml:"id"`
	Directory string              `yaml:"directory"`
	Timestamp time.Time           `yaml:"timestamp"`
	Moves     []models.MoveRecord `yaml:"moves"`
}

// BackupRecord points at the most recent snapshot directory
type BackupRecord struct {
	Path      string    `yaml:"path"`
	SourceDir string    `yaml:"source_dir"`
	CreatedAt time.Time `yaml:"created_at"`
}

// History is the single-slot state file. Each new pass replaces the
// previous one
type History struct {
	Version int           `yaml:"version"`
	Pass    *PassRecord   `yaml:"pass,omitempty"`
	Backup  *BackupRecord `yaml:"backup,omitempty"`
}

// New returns an empty history
func New() *History {
	return &History{Version: Version}
}

// DefaultPath returns the default state file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".local", "state", "filesorter", "history.yaml"), nil
}

// Load reads the history from path. A missing file yields an empty
// history, not an error
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	h := New()
	if err := yaml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}

	if h.Version != Version {
		// Unknown layout, start fresh rather than misread it
		return New(), nil
	}

	return h, nil
}

// Save writes the history to path, creating parent directories
func Save(h *History, path string) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}

	return nil
}

// ClearPass drops the undo slot, keeping any backup reference
func (h *History) ClearPass() {
	h.Pass = nil
}

// SetPass replaces the undo slot with the given pass
func (h *History) SetPass(id, directory string, moves []models.MoveRecord) {
	h.Pass = &PassRecord{
		ID:        id,
		Directory: directory,
		Timestamp: time.Now(),
		Moves:     moves,
	}
}

// SetBackup replaces the backup reference
func (h *History) SetBackup(path, sourceDir string) {
	h.Backup = &BackupRecord{
		Path:      path,
		SourceDir: sourceDir,
		CreatedAt: time.Now(),
	}
}
