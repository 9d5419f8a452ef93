package sorter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tvernaillen/filesorter/pkg/storage"
)

// ResolveCollision returns a destination path that does not exist yet.
// If desired is free it is returned unchanged; otherwise stem_1.ext,
// stem_2.ext, ... are probed until a free name is found. The filesystem
// is consulted on every call, so files sorted into the same category
// within one pass cannot collide with each other.
func ResolveCollision(ctx context.Context, store storage.Backend, desired string) (string, error) {
	exists, err := store.Exists(ctx, desired)
	if err != nil {
		return "", fmt.Errorf("failed to probe destination: %w", err)
	}
	if !exists {
		return desired, nil
	}

	dir := filepath.Dir(desired)
	name := filepath.Base(desired)

	ext := filepath.Ext(name)
	if ext == name {
		// Dot-only names like ".cfg" keep the whole name as stem
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		stem = "file"
	}

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		exists, err := store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe destination: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}
