package files

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

// manifest is the object form of a symbol manifest. A bare list is accepted too.
type manifest struct {
	Symbols []string `json:"symbols" yaml:"symbols" toml:"symbols"`
}

// Loader reads and writes symbol manifests
type Loader struct {
	fs filesystem.FileSystem
}

// NewLoader creates a loader backed by the OS filesystem
func NewLoader() *Loader {
	return NewLoaderWithFS(filesystem.NewOSFileSystem())
}

// NewLoaderWithFS creates a loader with a custom FileSystem (for testing)
func NewLoaderWithFS(fs filesystem.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// LoadSymbols decodes the manifest at path into a symbol set. The format is
// chosen by GetFileType; anything that is not yaml, json or toml is read as
// one name per line with # comments.
func (l *Loader) LoadSymbols(path string) (fsutil.SymbolSet, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var names []string
	switch GetFileType(path) {
	case "yaml":
		names, err = decodeYAML(data)
	case "json":
		names, err = decodeJSON(data)
	case "toml":
		names, err = decodeTOML(data)
	default:
		names, err = decodeText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return fsutil.NewSymbolSet(names...), nil
}

// WriteSymbols writes names to path as a manifest in the format implied by
// its extension.
func (l *Loader) WriteSymbols(path string, names []string) error {
	var (
		data []byte
		err  error
	)
	m := manifest{Symbols: names}
	if m.Symbols == nil {
		m.Symbols = []string{}
	}

	switch GetFileType(path) {
	case "yaml":
		data, err = yaml.Marshal(m)
	case "json":
		data, err = json.MarshalIndent(m, "", "  ")
	case "toml":
		data, err = toml.Marshal(m)
	default:
		data = []byte(strings.Join(names, "\n") + "\n")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := l.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := l.fs.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func decodeYAML(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Symbols, nil
}

func decodeJSON(data []byte) ([]string, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Symbols, nil
}

// TOML has no top-level arrays, so only the object form exists.
func decodeTOML(data []byte) ([]string, error) {
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.Symbols, nil
}

func decodeText(data []byte) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

// GetFileType determines the manifest format based on extension
func GetFileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "text"
	}
}
