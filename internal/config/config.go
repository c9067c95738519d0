// Package config manages gitsim configuration stored in .gitsim.toml.
// It handles discovery, loading over built-in defaults, validation and saving.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/pelletier/go-toml/v2"
)

const (
	ConfigFile  = ".gitsim.toml"
	AppDir      = "gitsim"
	HistoryFile = "history.db"
)

// ErrNotFound is returned by FindConfigFile when no config file exists up to
// the filesystem root.
var ErrNotFound = errors.New("no " + ConfigFile + " found (or any parent up to root)")

// Config represents the gitsim configuration
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
	path    string        // file the config was loaded from
}

// LayoutConfig mirrors layout.Params plus the root branch origin
type LayoutConfig struct {
	Step              int    `toml:"step"`
	LabelGutter       int    `toml:"label_gutter"`
	FirstCommitOffset int    `toml:"first_commit_offset"`
	ChildDrop         int    `toml:"child_drop"`
	SiblingIncrement  int    `toml:"sibling_increment"`
	FastPathLift      int    `toml:"fast_path_lift"`
	SecondLevel       string `toml:"second_level"`
	LifelineTail      int    `toml:"lifeline_tail"`
	CommitRadius      int    `toml:"commit_radius"`
	OriginX           int    `toml:"origin_x"`
	OriginY           int    `toml:"origin_y"`
}

// ServerConfig configures the playground server
type ServerConfig struct {
	Listen            string `toml:"listen"`
	SessionTimeout    string `toml:"session_timeout"`
	MaxSessions       int    `toml:"max_sessions"`
	CommandsPerMinute int    `toml:"commands_per_minute"`
}

// HistoryConfig configures persisted REPL history
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // empty means the user config directory
	Limit   int    `toml:"limit"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration
func Default() *Config {
	p := layout.DefaultParams()
	return &Config{
		Layout: LayoutConfig{
			Step:              p.Step,
			LabelGutter:       p.LabelGutter,
			FirstCommitOffset: p.FirstCommitOffset,
			ChildDrop:         p.ChildDrop,
			SiblingIncrement:  p.SiblingIncrement,
			FastPathLift:      p.FastPathLift,
			SecondLevel:       p.SecondLevel,
			LifelineTail:      p.LifelineTail,
			CommitRadius:      p.CommitRadius,
			OriginX:           30,
			OriginY:           30,
		},
		Server: ServerConfig{
			Listen:            "127.0.0.1:8090",
			SessionTimeout:    "30m",
			MaxSessions:       1000,
			CommandsPerMinute: 300,
		},
		History: HistoryConfig{
			Enabled: true,
			Limit:   500,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FindConfigFile finds .gitsim.toml by walking up from the current directory
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load reads the configuration at path over the defaults. An empty path
// discovers .gitsim.toml and falls back to the defaults when there is none.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		found, err := FindConfigFile()
		if errors.Is(err, ErrNotFound) {
			return cfg, nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.path = path
	return cfg, nil
}

// Initialize writes the default configuration to .gitsim.toml in dir
func Initialize(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)

	// Check if already initialized
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%s already exists", path)
	}

	cfg := Default()
	cfg.path = path
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves the configuration to the file it was loaded from
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no file path")
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(c.path, data, 0644)
}

// Path returns the file the config was loaded from, empty for defaults
func (c *Config) Path() string {
	return c.path
}

// Validate rejects values that would break layout or the server
func (c *Config) Validate() error {
	if c.Layout.Step <= 0 {
		return fmt.Errorf("layout.step must be positive, got %d", c.Layout.Step)
	}
	if c.Layout.CommitRadius < 0 {
		return fmt.Errorf("layout.commit_radius must not be negative, got %d", c.Layout.CommitRadius)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := c.SessionTimeout(); err != nil {
		return err
	}
	if c.Server.MaxSessions < 0 || c.Server.CommandsPerMinute < 0 {
		return fmt.Errorf("server limits must not be negative")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit)
	}
	return nil
}

// LayoutParams converts the layout section to layout parameters
func (c *Config) LayoutParams() layout.Params {
	l := c.Layout
	return layout.Params{
		Step:              l.Step,
		LabelGutter:       l.LabelGutter,
		FirstCommitOffset: l.FirstCommitOffset,
		ChildDrop:         l.ChildDrop,
		SiblingIncrement:  l.SiblingIncrement,
		FastPathLift:      l.FastPathLift,
		SecondLevel:       l.SecondLevel,
		LifelineTail:      l.LifelineTail,
		CommitRadius:      l.CommitRadius,
	}
}

// Origin returns where init places the root branch
func (c *Config) Origin() models.Point {
	return models.Point{X: c.Layout.OriginX, Y: c.Layout.OriginY}
}

// SessionTimeout parses server.session_timeout
func (c *Config) SessionTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.SessionTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid server.session_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.session_timeout must be positive, got %s", d)
	}
	return d, nil
}

// HistoryPath returns the bbolt file REPL history is kept in
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppDir, HistoryFile), nil
}
