package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HenrikKarapetyan/filesystem/internal/filesystem"
	"github.com/HenrikKarapetyan/filesystem/internal/logger"
	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

// Config holds the CLI configuration
type Config struct {
	DirMode            string   `json:"dir_mode"`  // octal, e.g. "0775"
	FileMode           string   `json:"file_mode"` // octal, e.g. "0664"
	NamespaceSeparator string   `json:"namespace_separator"`
	SourceExtension    string   `json:"source_extension"`
	Excluded           []string `json:"excluded"`
	ExcludeGlobs       []string `json:"exclude_globs"`
	AutoApprove        bool     `json:"auto_approve"`
	JournalDir         string   `json:"journal_dir"`
	LogDir             string   `json:"log_dir"`
	LogLevel           string   `json:"log_level"` // "debug", "info", "warn", "error"
}

var (
	configDir  = filepath.Join(os.Getenv("HOME"), ".fsutil")
	configFile = filepath.Join(configDir, "config.json")
	defaultFS  = filesystem.NewOSFileSystem()
)

// Default returns a configuration with every field at its default, rooted at dir.
func Default(dir string) *Config {
	return &Config{
		DirMode:            formatMode(fsutil.DefaultDirMode),
		FileMode:           formatMode(fsutil.DefaultFileMode),
		NamespaceSeparator: fsutil.DefaultNamespaceSeparator,
		SourceExtension:    fsutil.DefaultSourceExtension,
		JournalDir:         filepath.Join(dir, "journal"),
		LogDir:             filepath.Join(dir, "logs"),
		LogLevel:           "info",
	}
}

// Load loads the configuration from file or creates a default one
func Load() (*Config, error) {
	return LoadWithFS(defaultFS, configDir, configFile)
}

// LoadWithFS loads the configuration using a custom FileSystem (for testing)
func LoadWithFS(fs filesystem.FileSystem, dir, file string) (*Config, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := Default(dir)

	if _, err := fs.Stat(file); err == nil {
		data, err := fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := cfg.SaveWithFS(fs, file); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	if err := cfg.ensureDir(fs, file, "journal_dir", &cfg.JournalDir, filepath.Join(dir, "journal")); err != nil {
		return nil, err
	}
	if err := cfg.ensureDir(fs, file, "log_dir", &cfg.LogDir, filepath.Join(dir, "logs")); err != nil {
		return nil, err
	}

	// Environment overrides apply to this run only and are never saved.
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to file
func (c *Config) Save() error {
	return c.SaveWithFS(defaultFS, configFile)
}

// SaveWithFS saves the configuration using a custom FileSystem (for testing)
func (c *Config) SaveWithFS(fs filesystem.FileSystem, file string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(file)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := fs.WriteFile(file, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFile returns the configuration file path
func GetConfigFile() string {
	return configFile
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		env string
		key string
	}{
		{"FSUTIL_LOG_LEVEL", "log_level"},
		{"FSUTIL_AUTO_APPROVE", "auto_approve"},
		{"FSUTIL_DIR_MODE", "dir_mode"},
		{"FSUTIL_FILE_MODE", "file_mode"},
	}

	for _, o := range overrides {
		value, ok := os.LookupEnv(o.env)
		if !ok || value == "" {
			continue
		}
		if err := c.Set(o.key, value); err != nil {
			return fmt.Errorf("invalid %s: %w", o.env, err)
		}
	}
	return nil
}

func (c *Config) ensureDir(fs filesystem.FileSystem, file, key string, value *string, fallback string) error {
	if strings.TrimSpace(*value) == "" {
		*value = fallback
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save default %s: %w", key, err)
		}
	}

	if err := fs.MkdirAll(*value, 0755); err != nil {
		*value = fallback
		if err := fs.MkdirAll(*value, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", key, err)
		}
		if err := c.SaveWithFS(fs, file); err != nil {
			return fmt.Errorf("failed to save fallback %s: %w", key, err)
		}
	}

	return nil
}

// Set updates a config value by key.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "dir_mode":
		if _, err := ParseMode(value); err != nil {
			return err
		}
		c.DirMode = value
	case "file_mode":
		if _, err := ParseMode(value); err != nil {
			return err
		}
		c.FileMode = value
	case "namespace_separator":
		if value == "" {
			return fmt.Errorf("namespace_separator must not be empty")
		}
		c.NamespaceSeparator = value
	case "source_extension":
		c.SourceExtension = strings.TrimPrefix(strings.TrimSpace(value), ".")
	case "excluded":
		c.Excluded = splitList(value)
	case "exclude_globs":
		c.ExcludeGlobs = splitList(value)
	case "auto_approve":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auto_approve: %s", value)
		}
		c.AutoApprove = parsed
	case "journal_dir":
		c.JournalDir = value
	case "log_dir":
		c.LogDir = value
	case "log_level":
		if _, err := logger.ParseLevel(value); err != nil {
			return fmt.Errorf("invalid log_level: %s", value)
		}
		c.LogLevel = strings.ToLower(strings.TrimSpace(value))
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}

// Level returns the configured log level, falling back to INFO.
func (c *Config) Level() logger.LogLevel {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.INFO
	}
	return level
}

// Modes returns the parsed directory and file modes.
func (c *Config) Modes() (dirMode, fileMode os.FileMode, err error) {
	if dirMode, err = ParseMode(c.DirMode); err != nil {
		return 0, 0, err
	}
	if fileMode, err = ParseMode(c.FileMode); err != nil {
		return 0, 0, err
	}
	return dirMode, fileMode, nil
}

// Options builds the traversal options for the configured filters.
func (c *Config) Options() fsutil.Options {
	return fsutil.Options{
		Extension:    c.SourceExtension,
		Excluded:     append([]string(nil), c.Excluded...),
		ExcludeGlobs: append([]string(nil), c.ExcludeGlobs...),
		Separator:    c.NamespaceSeparator,
	}
}

// ParseMode parses an octal permission string such as "0755" or "755".
func ParseMode(s string) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid mode: empty")
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode: %s", s)
	}
	if v > 0o7777 {
		return 0, fmt.Errorf("invalid mode: %s out of range", s)
	}
	return os.FileMode(v), nil
}

func formatMode(m os.FileMode) string {
	return fmt.Sprintf("%04o", uint32(m.Perm()))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
