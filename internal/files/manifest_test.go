package files

import (
	"os"
	"strings"
	"testing"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
)

func TestLoadSymbols_Formats(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
	}{
		{"yaml list", "/m/classes.yaml", "- App\\Kernel\n- App\\Sub\\Foo\n"},
		{"yaml object", "/m/classes.yml", "symbols:\n  - App\\Kernel\n  - App\\Sub\\Foo\n"},
		{"json list", "/m/classes.json", `["App\\Kernel", "App\\Sub\\Foo"]`},
		{"json object", "/m/classes.json", `{"symbols": ["App\\Kernel", "App\\Sub\\Foo"]}`},
		{"toml", "/m/classes.toml", "symbols = ['App\\Kernel', 'App\\Sub\\Foo']\n"},
		{"text", "/m/classes.txt", "# generated\nApp\\Kernel\n\n  App\\Sub\\Foo  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockFS := filesystem.NewMockFileSystem()
			mockFS.AddFile(tt.path, []byte(tt.content), 0644)

			set, err := NewLoaderWithFS(mockFS).LoadSymbols(tt.path)
			if err != nil {
				t.Fatalf("LoadSymbols() failed: %v", err)
			}

			names := set.Names()
			if len(names) != 2 {
				t.Fatalf("Expected 2 symbols, got %v", names)
			}
			if !set.Exists(`App\Kernel`) || !set.Exists(`App\Sub\Foo`) {
				t.Errorf("Expected App\\Kernel and App\\Sub\\Foo, got %v", names)
			}
		})
	}
}

func TestLoadSymbols_Invalid(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.AddFile("/m/bad.json", []byte("{ invalid json }"), 0644)
	mockFS.AddFile("/m/bad.toml", []byte("symbols = ["), 0644)

	loader := NewLoaderWithFS(mockFS)
	if _, err := loader.LoadSymbols("/m/bad.json"); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
	if _, err := loader.LoadSymbols("/m/bad.toml"); err == nil {
		t.Error("Expected error for invalid TOML, got nil")
	}
}

func TestLoadSymbols_NotFound(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()

	_, err := NewLoaderWithFS(mockFS).LoadSymbols("/nonexistent.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent manifest, got nil")
	}
}

func TestLoadSymbols_ReadError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.AddFile("/m/classes.txt", []byte("A"), 0644)
	mockFS.SetReadError("/m/classes.txt", os.ErrPermission)

	if _, err := NewLoaderWithFS(mockFS).LoadSymbols("/m/classes.txt"); err == nil {
		t.Error("Expected error for read failure, got nil")
	}
}

func TestWriteSymbols_RoundTrip(t *testing.T) {
	names := []string{`App\Kernel`, `App\Sub\Foo`}

	for _, path := range []string{"/out/a.yaml", "/out/a.json", "/out/a.toml", "/out/a.txt"} {
		mockFS := filesystem.NewMockFileSystem()
		loader := NewLoaderWithFS(mockFS)

		if err := loader.WriteSymbols(path, names); err != nil {
			t.Fatalf("WriteSymbols(%s) failed: %v", path, err)
		}

		set, err := loader.LoadSymbols(path)
		if err != nil {
			t.Fatalf("LoadSymbols(%s) failed: %v", path, err)
		}
		if got := strings.Join(set.Names(), ","); got != `App\Kernel,App\Sub\Foo` {
			t.Errorf("%s: expected both names back, got %s", path, got)
		}
	}
}

func TestWriteSymbols_WriteError(t *testing.T) {
	mockFS := filesystem.NewMockFileSystem()
	mockFS.SetWriteError("/out/a.yaml", os.ErrPermission)

	if err := NewLoaderWithFS(mockFS).WriteSymbols("/out/a.yaml", nil); err == nil {
		t.Error("Expected error for write failure, got nil")
	}
}

func TestGetFileType(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/test/file.yaml", "yaml"},
		{"/test/file.YML", "yaml"},
		{"/test/file.json", "json"},
		{"/test/file.toml", "toml"},
		{"/test/file.txt", "text"},
		{"/test/file", "text"},
	}

	for _, tt := range tests {
		if result := GetFileType(tt.path); result != tt.expected {
			t.Errorf("GetFileType(%s) = %s, expected %s", tt.path, result, tt.expected)
		}
	}
}
