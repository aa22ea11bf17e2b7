package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

func TestBar_Observe(t *testing.T) {
	bar := NewWithWriter(io.Discard, 2, "copying", false)

	bar.Observe(fsutil.CopyEvent{Source: "/src/a.txt", Destination: "/dst/a.txt", Bytes: 10})
	bar.Observe(fsutil.CopyEvent{Source: "/src/b.txt", Destination: "/dst/b.txt", Bytes: 5})

	if bar.Files() != 2 {
		t.Errorf("Expected 2 files, got %d", bar.Files())
	}
	if bar.Bytes() != 15 {
		t.Errorf("Expected 15 bytes, got %d", bar.Bytes())
	}
	if err := bar.Finish(); err != nil {
		t.Errorf("Finish() failed: %v", err)
	}
}

func TestBar_FinishWritesNewlineWhenShown(t *testing.T) {
	var buf bytes.Buffer
	bar := NewWithWriter(&buf, -1, "moving", true)
	bar.Observe(fsutil.CopyEvent{Source: "/src/a.txt", Bytes: 1})

	if err := bar.Finish(); err != nil {
		t.Fatalf("Finish() failed: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("Expected trailing newline, got %q", buf.String())
	}
}

func TestCountFiles(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.AddFile("/src/a.php", nil, 0644)
	mockFS.AddFile("/src/sub/b.php", nil, 0644)
	mockFS.AddFile("/src/sub/c.md", nil, 0644)
	mockFS.AddFile("/src/vendor/d.php", nil, 0644)

	n, err := CountFiles(fsutil.NewWithFS(mockFS), "/src", fsutil.Options{
		Extension: "php",
		Excluded:  []string{"/src/vendor"},
	})
	if err != nil {
		t.Fatalf("CountFiles() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 files, got %d", n)
	}
}

func TestCountFiles_MissingSource(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()

	if _, err := CountFiles(fsutil.NewWithFS(mockFS), "/missing", fsutil.Options{}); err == nil {
		t.Error("Expected error for missing source, got nil")
	}
}
