package category

import (
	"path/filepath"
	"sort"
	"strings"
)

// Fallback is the category assigned to files whose extension is unknown
// or missing
const Fallback = "Others"

// Registry maps file extensions to category names.
// It is not safe for concurrent mutation; Merge must not be called while
// a sorting pass is classifying files.
type Registry struct {
	categories map[string][]string
	index      map[string]string
}

// NewRegistry creates a registry populated with the default category table
func NewRegistry() *Registry {
	r := &Registry{
		categories: make(map[string][]string, len(defaultCategories)),
	}
	for name, exts := range defaultCategories {
		r.categories[name] = append([]string(nil), exts...)
	}
	r.rebuild()
	return r
}

// Classify returns the category for a filename based on its extension.
// The extension match is case-insensitive. Names without an extension,
// including names that are only an extension (".profile"), fall back to
// the Fallback category. Classify never fails.
func (r *Registry) Classify(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == strings.ToLower(filename) {
		return Fallback
	}
	if category, ok := r.index[ext]; ok {
		return category
	}
	return Fallback
}

// Merge replaces the extension list of each given category wholesale and
// rebuilds the extension index from the full table. Categories absent
// from the input are left untouched.
//
// Two categories should not claim the same extension. If they do, the
// category that sorts last alphabetically wins; the index rebuild walks
// category names in sorted order so the outcome is deterministic.
func (r *Registry) Merge(custom map[string][]string) {
	for name, exts := range custom {
		normalized := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized = append(normalized, ext)
		}
		r.categories[name] = normalized
	}
	r.rebuild()
}

// Categories returns all category names in sorted order
func (r *Registry) Categories() []string {
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the extensions registered for a category.
// Unknown categories yield an empty list.
func (r *Registry) Extensions(category string) []string {
	return append([]string(nil), r.categories[category]...)
}

// Table returns a copy of the full category table, suitable for
// serializing the current state back into preferences
func (r *Registry) Table() map[string][]string {
	table := make(map[string][]string, len(r.categories))
	for name, exts := range r.categories {
		table[name] = append([]string(nil), exts...)
	}
	return table
}

// rebuild recreates the extension index from the category table.
// Sorted iteration keeps the last-write-wins behavior deterministic.
func (r *Registry) rebuild() {
	r.index = make(map[string]string)
	for _, name := range r.Categories() {
		for _, ext := range r.categories[name] {
			r.index[strings.ToLower(ext)] = name
		}
	}
}
