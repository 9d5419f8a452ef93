package sorter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tvernaillen/filesorter/pkg/category"
	"github.com/tvernaillen/filesorter/pkg/logging"
	"github.com/tvernaillen/filesorter/pkg/models"
	"github.com/tvernaillen/filesorter/pkg/output"
	"github.com/tvernaillen/filesorter/pkg/storage"
)

func newTestEngine(t *testing.T, dir string, preview bool) (*Engine, *UndoLog) {
	t.Helper()

	store, err := storage.NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	undo := NewUndoLog()
	op := &models.SortOperation{
		ID:        "test-op",
		Directory: dir,
		Preview:   preview,
		CreatedAt: time.Now(),
	}

	return NewEngine(store, category.NewRegistry(), undo, nil, logging.NewNullLogger(), op), undo
}

func TestEngineRun_Scenario(t *testing.T) {
	// Directory with a known extension, a second known extension, a
	// hidden file and an extensionless file
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "a.jpg", "jpg data")
	writeTestFile(t, tempDir, "b.txt", "txt data")
	writeTestFile(t, tempDir, ".hidden", "secret")
	writeTestFile(t, tempDir, "notes", "plain")

	engine, undo := newTestEngine(t, tempDir, false)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if engine.State() != models.StateCompleted {
		t.Errorf("State() = %s, want completed", engine.State())
	}
	if report.Stats.FilesProcessed != 3 {
		t.Errorf("FilesProcessed = %d, want 3", report.Stats.FilesProcessed)
	}
	if report.Stats.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", report.Stats.FilesSkipped)
	}

	wantFiles := map[string]string{
		filepath.Join("Images", "a.jpg"):    "jpg data",
		filepath.Join("Documents", "b.txt"): "txt data",
		filepath.Join("Others", "notes"):    "plain",
	}
	for rel, content := range wantFiles {
		data, err := os.ReadFile(filepath.Join(tempDir, rel))
		if err != nil {
			t.Errorf("expected %s: %v", rel, err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s content = %q, want %q", rel, string(data), content)
		}
	}

	// Hidden file stays in place
	if _, err := os.Stat(filepath.Join(tempDir, ".hidden")); err != nil {
		t.Errorf("hidden file was touched: %v", err)
	}

	if got := report.Stats.PerCategory["Images"]; got != 1 {
		t.Errorf("PerCategory[Images] = %d, want 1", got)
	}
	if got := report.Stats.PerCategory["Others"]; got != 1 {
		t.Errorf("PerCategory[Others] = %d, want 1", got)
	}

	if undo.Len() != 3 {
		t.Errorf("undo entries = %d, want 3", undo.Len())
	}
}

func TestEngineRun_PreviewIsIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "a.jpg", "x")
	writeTestFile(t, tempDir, "b.txt", "y")

	engine, undo := newTestEngine(t, tempDir, true)

	first, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	t.Run("NoFilesystemMutation", func(t *testing.T) {
		entries, err := os.ReadDir(tempDir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("directory has %d entries after preview, want 2", len(entries))
		}
		for _, e := range entries {
			if e.IsDir() {
				t.Errorf("preview created directory %s", e.Name())
			}
		}
	})

	t.Run("NoUndoRecorded", func(t *testing.T) {
		if undo.Len() != 0 {
			t.Errorf("undo entries = %d after preview, want 0", undo.Len())
		}
	})

	t.Run("IdenticalResults", func(t *testing.T) {
		if first.Stats.FilesProcessed != second.Stats.FilesProcessed {
			t.Errorf("processed counts differ: %d vs %d",
				first.Stats.FilesProcessed, second.Stats.FilesProcessed)
		}
		for cat, n := range first.Stats.PerCategory {
			if second.Stats.PerCategory[cat] != n {
				t.Errorf("PerCategory[%s] differs: %d vs %d", cat, n, second.Stats.PerCategory[cat])
			}
		}
	})

	t.Run("MovesMarkedPreview", func(t *testing.T) {
		for _, m := range first.Moves {
			if !m.Preview {
				t.Errorf("move %s not marked as preview", m.Name)
			}
		}
	})
}

func TestEngineRun_CollisionWithExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "x.jpg", "new")
	writeTestFile(t, tempDir, filepath.Join("Images", "x.jpg"), "old")

	engine, _ := newTestEngine(t, tempDir, false)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", report.Stats.FilesProcessed)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, "Images", "x_1.jpg"))
	if err != nil {
		t.Fatalf("expected Images/x_1.jpg: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("Images/x_1.jpg content = %q, want %q", string(data), "new")
	}

	data, err = os.ReadFile(filepath.Join(tempDir, "Images", "x.jpg"))
	if err != nil {
		t.Fatalf("pre-existing Images/x.jpg is gone: %v", err)
	}
	if string(data) != "old" {
		t.Errorf("pre-existing file was overwritten")
	}
}

func TestEngineRun_Cancellation(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"} {
		writeTestFile(t, tempDir, name, "data "+name)
	}

	store, err := storage.NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	undo := NewUndoLog()
	op := &models.SortOperation{ID: "cancel-op", Directory: tempDir, CreatedAt: time.Now()}
	formatter := &cancelAfterN{n: 2, cancel: cancel}
	engine := NewEngine(store, category.NewRegistry(), undo, formatter, logging.NewNullLogger(), op)

	report, err := engine.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", report.Status)
	}
	if engine.State() != models.StateCancelled {
		t.Errorf("State() = %s, want cancelled", engine.State())
	}
	if report.Stats.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", report.Stats.FilesProcessed)
	}
	if undo.Len() != 2 {
		t.Errorf("undo entries = %d, want 2 (partial undo log must survive)", undo.Len())
	}

	// The remaining three files are untouched
	for _, name := range []string{"c.txt", "d.txt", "e.txt"} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("%s should be untouched: %v", name, err)
		}
	}
}

// cancelAfterN is a Formatter that cancels the context after n files
// have been moved
type cancelAfterN struct {
	n      int
	moved  int
	cancel context.CancelFunc
}

func (f *cancelAfterN) Start(w io.Writer, total int) error { return nil }

func (f *cancelAfterN) Progress(u output.ProgressUpdate) error {
	if u.Type == "file_moved" {
		f.moved++
		if f.moved >= f.n {
			f.cancel()
		}
	}
	return nil
}

func (f *cancelAfterN) Complete(report *models.SortReport) error { return nil }
func (f *cancelAfterN) Error(err error) error                    { return nil }
func (f *cancelAfterN) Name() string                             { return "cancel-after-n" }

func TestEngineRun_EmptyDirectory(t *testing.T) {
	tempDir := t.TempDir()

	engine, undo := newTestEngine(t, tempDir, false)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if report.Stats.FilesListed != 0 || report.Stats.FilesProcessed != 0 || report.Stats.FilesSkipped != 0 {
		t.Errorf("counts = %+v, want all zero", report.Stats)
	}
	if undo.Len() != 0 {
		t.Errorf("undo entries = %d, want 0", undo.Len())
	}
}

func TestEngineRun_MissingDirectory(t *testing.T) {
	tempDir := t.TempDir()

	engine, _ := newTestEngine(t, tempDir, false)
	if err := os.RemoveAll(tempDir); err != nil {
		t.Fatalf("failed to remove dir: %v", err)
	}

	report, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when the directory cannot be listed")
	}
	if report.Status != models.StatusFailed {
		t.Errorf("Status = %s, want failed", report.Status)
	}
	if engine.State() != models.StateFailed {
		t.Errorf("State() = %s, want failed", engine.State())
	}
}

func TestEngineRun_PerFileFailureContinues(t *testing.T) {
	tempDir := t.TempDir()
	// A regular file named like the fallback category blocks creation of
	// the Others directory, making its own move fail
	writeTestFile(t, tempDir, "Others", "in the way")
	writeTestFile(t, tempDir, "zz.jpg", "fine")

	engine, _ := newTestEngine(t, tempDir, false)

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != models.StatusPartial {
		t.Errorf("Status = %s, want partial", report.Status)
	}
	if report.Stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", report.Stats.FilesErrored)
	}
	if report.Stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", report.Stats.FilesProcessed)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1", len(report.Errors))
	}
	if report.Errors[0].FilePath != "Others" {
		t.Errorf("error file = %s, want Others", report.Errors[0].FilePath)
	}

	// The healthy file still made it
	if _, err := os.Stat(filepath.Join(tempDir, "Images", "zz.jpg")); err != nil {
		t.Errorf("zz.jpg was not moved: %v", err)
	}
}

func TestEngineRun_PreservesTimestamps(t *testing.T) {
	tempDir := t.TempDir()
	writeTestFile(t, tempDir, "old.jpg", "x")

	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(tempDir, "old.jpg"), stamp, stamp); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	engine, _ := newTestEngine(t, tempDir, false)
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(tempDir, "Images", "old.jpg"))
	if err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), stamp)
	}
}
