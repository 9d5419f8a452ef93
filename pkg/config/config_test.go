package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %s, want human", cfg.Output.Format)
	}
	if !cfg.Output.Progress {
		t.Error("Output.Progress should default to true")
	}
	if cfg.Sort.Preview {
		t.Error("Sort.Preview should default to false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"BadOutputFormat", func(c *Config) { c.Output.Format = "xml" }, true},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "yaml" }, true},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"EmptyCategoryName", func(c *Config) {
			c.Categories = map[string][]string{"": {".jpg"}}
		}, true},
		{"EmptyExtensionList", func(c *Config) {
			c.Categories = map[string][]string{"Ebooks": {}}
		}, true},
		{"CustomCategories", func(c *Config) {
			c.Categories = map[string][]string{"Ebooks": {".epub", ".mobi"}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Sort.Preview = true
	cfg.LastDirectory = "/home/user/Downloads"
	cfg.Categories = map[string][]string{"Ebooks": {".epub", ".mobi"}}

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !loaded.Sort.Preview {
		t.Error("Sort.Preview not round-tripped")
	}
	if loaded.LastDirectory != "/home/user/Downloads" {
		t.Errorf("LastDirectory = %s", loaded.LastDirectory)
	}
	if len(loaded.Categories["Ebooks"]) != 2 {
		t.Errorf("Categories[Ebooks] = %v", loaded.Categories["Ebooks"])
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFromFile() should fail for a missing file")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("LoadFromFile() should reject an invalid format")
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sort:\n  preview: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !cfg.Sort.Preview {
		t.Error("Sort.Preview not applied")
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %s, want default human", cfg.Output.Format)
	}
}
