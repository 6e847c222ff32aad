package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runger/quickopen/internal/source"

	qlog "github.com/runger/quickopen/internal/log"
)

// ErrWrite marks failures to persist the configuration. It is the only
// configuration error surfaced to the user; read failures fall back to
// defaults.
var ErrWrite = errors.New("config write failed")


// Config represents the quickopen configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Picker  PickerConfig  `yaml:"picker"`
	Log     LogConfig     `yaml:"log"`
}

// SourcesConfig gates the candidate sources. Each flag enables one collector.
type SourcesConfig struct {
	IncludeBookmarkDirFiles     bool `yaml:"include_bookmark_dir_files"`      // Files in GTK bookmarked directories
	IncludeDesktopDirFiles      bool `yaml:"include_desktop_dir_files"`       // Files in the XDG desktop directory
	IncludeOpenDocumentDirFiles bool `yaml:"include_open_document_dir_files"` // Files next to open documents
	IncludeHomeDirFiles         bool `yaml:"include_home_dir_files"`          // Files in the home directory
	IncludeRecentFiles          bool `yaml:"include_recent_files"`            // Recently used files
}

// PickerConfig holds collection and filtering settings.
type PickerConfig struct {
	Backend        string `yaml:"backend"`          // builtin or fzf
	MatchMode      string `yaml:"match_mode"`       // substring or fuzzy
	Recursive      bool   `yaml:"recursive"`        // Descend into subdirectories of directory sources
	MaxDepth       int    `yaml:"max_depth"`        // Depth limit when recursive (1 = shallow)
	IncludeHidden  bool   `yaml:"include_hidden"`   // Include dotfiles from directory sources
	FollowSymlinks bool   `yaml:"follow_symlinks"`  // Accept symbolic links as candidates
	RecentGroup    string `yaml:"recent_group"`     // Registry group the recent files must belong to
	MaxRecentFiles int    `yaml:"max_recent_files"` // Cap on recent files (<= 200)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			IncludeBookmarkDirFiles:     false,
			IncludeDesktopDirFiles:      false,
			IncludeOpenDocumentDirFiles: false,
			IncludeHomeDirFiles:         false,
			IncludeRecentFiles:          true,
		},
		Picker: PickerConfig{
			Backend:        "builtin",
			MatchMode:      "substring",
			Recursive:      false,
			MaxDepth:       1,
			IncludeHidden:  false,
			FollowSymlinks: false,
			RecentGroup:    "geany",
			MaxRecentFiles: source.MaxRecentFiles,
		},
		Log: LogConfig{
			Level: "info",
			File:  "", // Use default from paths
		},
	}
}

// Load loads configuration from the default path.
func Load() *Config {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile(), nil)
}

// LoadFromFile loads configuration from the specified file.
// A missing, unreadable, malformed or invalid file never fails the caller:
// the defaults are used instead and a warning is logged when logger is set.
// Environment variable overrides are applied last.
func LoadFromFile(path string, logger *slog.Logger) *Config {
	cfg, err := readFile(path)
	if err != nil {
		if logger != nil {
			qlog.LogConfigUnreadable(logger, path, err)
		}
		cfg = DefaultConfig()
	}
	cfg.ApplyEnvOverrides()
	return cfg
}

// readFile parses path on top of the defaults. A missing file is not an
// error.
func readFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
// Every failure wraps ErrWrite.
func (c *Config) SaveToFile(path string) error {
	// Derive directory from path and ensure it exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %w", ErrWrite, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal config: %w", ErrWrite, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write config file: %w", ErrWrite, err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "sources.include_recent_files" or "picker.match_mode"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "sources":
		return c.getSourcesField(field)
	case "picker":
		return c.getPickerField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "sources":
		return c.setSourcesField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

// sourceFlag returns a pointer to the flag backing a sources field.
func (c *Config) sourceFlag(field string) (*bool, bool) {
	switch field {
	case "include_bookmark_dir_files":
		return &c.Sources.IncludeBookmarkDirFiles, true
	case "include_desktop_dir_files":
		return &c.Sources.IncludeDesktopDirFiles, true
	case "include_open_document_dir_files":
		return &c.Sources.IncludeOpenDocumentDirFiles, true
	case "include_home_dir_files":
		return &c.Sources.IncludeHomeDirFiles, true
	case "include_recent_files":
		return &c.Sources.IncludeRecentFiles, true
	default:
		return nil, false
	}
}

func (c *Config) getSourcesField(field string) (string, error) {
	flag, ok := c.sourceFlag(field)
	if !ok {
		return "", fmt.Errorf("unknown field: sources.%s", field)
	}
	return strconv.FormatBool(*flag), nil
}

func (c *Config) setSourcesField(field, value string) error {
	flag, ok := c.sourceFlag(field)
	if !ok {
		return fmt.Errorf("unknown field: sources.%s", field)
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	*flag = v
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "backend":
		return c.Picker.Backend, nil
	case "match_mode":
		return c.Picker.MatchMode, nil
	case "recursive":
		return strconv.FormatBool(c.Picker.Recursive), nil
	case "max_depth":
		return strconv.Itoa(c.Picker.MaxDepth), nil
	case "include_hidden":
		return strconv.FormatBool(c.Picker.IncludeHidden), nil
	case "follow_symlinks":
		return strconv.FormatBool(c.Picker.FollowSymlinks), nil
	case "recent_group":
		return c.Picker.RecentGroup, nil
	case "max_recent_files":
		return strconv.Itoa(c.Picker.MaxRecentFiles), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "backend":
		if !isValidBackend(value) {
			return fmt.Errorf("invalid backend: %s (must be builtin or fzf)", value)
		}
		c.Picker.Backend = value
	case "match_mode":
		if !isValidMatchMode(value) {
			return fmt.Errorf("invalid match_mode: %s (must be substring or fuzzy)", value)
		}
		c.Picker.MatchMode = value
	case "recursive", "include_hidden", "follow_symlinks":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		switch field {
		case "recursive":
			c.Picker.Recursive = v
		case "include_hidden":
			c.Picker.IncludeHidden = v
		default:
			c.Picker.FollowSymlinks = v
		}
	case "max_depth":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_depth: %w", err)
		}
		c.Picker.MaxDepth = clamp(v, 1, 16)
	case "recent_group":
		if strings.TrimSpace(value) == "" {
			return errors.New("invalid recent_group: must not be empty")
		}
		c.Picker.RecentGroup = strings.TrimSpace(value)
	case "max_recent_files":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_recent_files: %w", err)
		}
		c.Picker.MaxRecentFiles = clamp(v, 1, source.MaxRecentFiles)
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration. Numeric settings are clamped into
// range; enum settings outside their domain are errors.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	if !isValidBackend(c.Picker.Backend) {
		return fmt.Errorf("picker.backend must be builtin or fzf (got: %s)", c.Picker.Backend)
	}

	if !isValidMatchMode(c.Picker.MatchMode) {
		return fmt.Errorf("picker.match_mode must be substring or fuzzy (got: %s)", c.Picker.MatchMode)
	}

	if strings.TrimSpace(c.Picker.RecentGroup) == "" {
		c.Picker.RecentGroup = DefaultConfig().Picker.RecentGroup
	}

	// Clamp depth to [1, 16] and the recent cap to [1, 200]
	c.Picker.MaxDepth = clamp(c.Picker.MaxDepth, 1, 16)
	c.Picker.MaxRecentFiles = clamp(c.Picker.MaxRecentFiles, 1, source.MaxRecentFiles)

	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidBackend(backend string) bool {
	switch backend {
	case "builtin", "fzf":
		return true
	default:
		return false
	}
}

func isValidMatchMode(mode string) bool {
	switch mode {
	case "substring", "fuzzy":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("QUICKOPEN_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("QUICKOPEN_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("QUICKOPEN_MATCH_MODE"); v != "" {
		if isValidMatchMode(v) {
			c.Picker.MatchMode = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"sources.include_bookmark_dir_files",
		"sources.include_desktop_dir_files",
		"sources.include_open_document_dir_files",
		"sources.include_home_dir_files",
		"sources.include_recent_files",
		"picker.backend",
		"picker.match_mode",
		"picker.recursive",
		"picker.max_depth",
		"picker.include_hidden",
		"picker.follow_symlinks",
		"picker.recent_group",
		"picker.max_recent_files",
		"log.level",
		"log.file",
	}
}
