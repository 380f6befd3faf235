package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/tidwall/sjson"
)

const (
	appName              = "virtualize"
	defaultDataDirectory = ".virtualize"
	defaultItemHeight    = 1
	defaultCount         = 10_000
)

type SourceKind string

const (
	SourceMemory SourceKind = "memory"
	SourceSQLite SourceKind = "sqlite"
	SourceFile   SourceKind = "file"
)

type SourceConfig struct {
	Kind SourceKind `json:"kind,omitempty"`
	// Count is the number of generated entries for the memory source and
	// the default seed size for sqlite.
	Count int `json:"count,omitempty"`
	// Latency delays every fetch, e.g. "150ms". Zero keeps in-memory
	// fetches synchronous.
	Latency string `json:"latency,omitempty"`
	// Path is the file for the file source or the database for sqlite.
	Path string `json:"path,omitempty"`
}

type ListOptions struct {
	ItemHeight  int    `json:"item_height,omitempty"`
	Placeholder string `json:"placeholder,omitempty"` // Empty renders a blank block
	Scrollbar   *bool  `json:"scrollbar,omitempty"`
}

type Options struct {
	Debug         bool   `json:"debug,omitempty"`
	DataDirectory string `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for virtualize.
type Config struct {
	Source  SourceConfig `json:"source"`
	List    ListOptions  `json:"list"`
	Options *Options     `json:"options,omitempty"`

	// Internal
	path string `json:"-"`
}

// GlobalConfig returns the path of the user-wide config file.
func GlobalConfig() string {
	if dir := os.Getenv("VIRTUALIZE_GLOBAL_CONFIG"); dir != "" {
		return filepath.Join(dir, appName+".json")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, appName+".json")
	}
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, appName+".json")
	}
	return filepath.Join(homeDir(), ".config", appName, appName+".json")
}

// GlobalDataDir returns the user-wide data directory.
func GlobalDataDir() string {
	if dir := os.Getenv("VIRTUALIZE_GLOBAL_DATA"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func defaults() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:  SourceMemory,
			Count: defaultCount,
		},
		List: ListOptions{
			ItemHeight: defaultItemHeight,
		},
		Options: &Options{
			DataDirectory: defaultDataDirectory,
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	cfg := defaults()
	cfg.path = path
	if len(data) > 0 {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDirectory == "" {
		cfg.Options.DataDirectory = defaultDataDirectory
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceMemory
	}
	if cfg.List.ItemHeight == 0 {
		cfg.List.ItemHeight = defaultItemHeight
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceMemory, SourceSQLite:
	case SourceFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the %s source", SourceFile)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Count < 0 {
		return fmt.Errorf("source.count must not be negative, got %d", c.Source.Count)
	}
	if _, err := c.Latency(); err != nil {
		return err
	}
	if c.List.ItemHeight <= 0 {
		return fmt.Errorf("list.item_height must be greater than zero, got %d", c.List.ItemHeight)
	}
	return nil
}

// Latency parses Source.Latency.
func (c *Config) Latency() (time.Duration, error) {
	if c.Source.Latency == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Source.Latency)
	if err != nil {
		return 0, fmt.Errorf("invalid source.latency %q: %w", c.Source.Latency, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("source.latency must not be negative, got %s", d)
	}
	return d, nil
}

// ScrollbarEnabled defaults to true.
func (c *Config) ScrollbarEnabled() bool {
	return c.List.Scrollbar == nil || *c.List.Scrollbar
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// LogFile returns where the TUI writes its logs.
func (c *Config) LogFile() string {
	return filepath.Join(c.Options.DataDirectory, "logs", appName+".log")
}

// DatabasePath returns the sqlite database location.
func (c *Config) DatabasePath() string {
	if c.Source.Kind == SourceSQLite && c.Source.Path != "" {
		return c.Source.Path
	}
	return filepath.Join(c.Options.DataDirectory, appName+".db")
}

// SetConfigField writes a single dotted key into the config file, creating
// the file when needed. The file is left untouched when the result does not
// validate. The in-memory config is not reloaded.
func (c *Config) SetConfigField(key string, value any) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if _, err := parse(c.path, []byte(newValue)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.path, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
