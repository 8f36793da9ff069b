package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"catadder/internal/errors"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Tab names accepted by panel.default_tab
const (
	TabLocal  = "local"
	TabRemote = "remote"
)

// Config represents the application configuration structure.
// It defines how the local browser filters entries, how remote catalogs are
// fetched, and how the panel behaves.
type Config struct {
	Browser struct {
		Home             string   `yaml:"home"`              // Directory the Home button returns to
		Filters          []string `yaml:"filters"`           // Allowed catalog file suffixes
		Exclude          []string `yaml:"exclude"`           // Doublestar patterns hidden from the listing
		RespectGitignore bool     `yaml:"respect_gitignore"` // Apply the directory's .gitignore
		Watch            bool     `yaml:"watch"`             // Refresh the listing when the directory changes
	} `yaml:"browser"`
	Remote struct {
		Timeout   int    `yaml:"timeout"`    // Request timeout in seconds
		Validate  bool   `yaml:"validate"`   // Only report ready for absolute URLs
		UserAgent string `yaml:"user_agent"` // User-Agent sent when fetching catalogs
	} `yaml:"remote"`
	Panel struct {
		DefaultTab         string `yaml:"default_tab"`           // local or remote
		RecheckOnTabSwitch bool   `yaml:"recheck_on_tab_switch"` // Re-evaluate readiness when tabs change
	} `yaml:"panel"`
	History struct {
		Enabled bool   `yaml:"enabled"` // Record added catalogs
		Path    string `yaml:"path"`    // Directory of the history store
		Limit   int    `yaml:"limit"`   // Entries shown by default
	} `yaml:"history"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, monochrome)
		Primary  string `yaml:"primary"`  // Primary color for titles and the active tab
		Success  string `yaml:"success"`  // Valid path indicator
		Warning  string `yaml:"warning"`  // Busy indicator
		Error    string `yaml:"error"`    // Invalid path indicator and errors
		Info     string `yaml:"info"`     // Help text
		Emphasis string `yaml:"emphasis"` // Cursor row
		Border   string `yaml:"border"`   // Frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/catadder/config.yaml
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "catadder", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal over the defaults so unset fields keep their default values
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if cfg.Theme.Name != "" && cfg.Theme.Primary == "" {
		cfg.ApplyTheme(cfg.Theme.Name)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Browser.Home = "" // user home directory
	cfg.Browser.Filters = []string{"yaml", "yml"}
	cfg.Browser.Exclude = []string{}
	cfg.Browser.RespectGitignore = false
	cfg.Browser.Watch = true

	cfg.Remote.Timeout = 10
	cfg.Remote.Validate = false
	cfg.Remote.UserAgent = "catadder/1.0"

	cfg.Panel.DefaultTab = TabLocal
	cfg.Panel.RecheckOnTabSwitch = false

	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join("~", ".config", "catadder", "history")
	cfg.History.Limit = 20

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if len(c.Browser.Filters) == 0 {
		return errors.NewConfigError("at least one filter is required", "browser.filters", errors.InvalidConfig, nil)
	}
	for i, f := range c.Browser.Filters {
		if f == "" {
			return errors.NewConfigError(fmt.Sprintf("filter %d is empty", i), "browser.filters", errors.InvalidConfig, nil)
		}
	}

	for _, p := range c.Browser.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.NewConfigError(fmt.Sprintf("bad exclude pattern %q", p), "browser.exclude", errors.InvalidConfig, nil)
		}
	}

	if c.Browser.Home != "" {
		home, err := homedir.Expand(c.Browser.Home)
		if err != nil {
			return errors.NewConfigError("cannot expand home directory", "browser.home", errors.InvalidConfig, err)
		}
		info, err := os.Stat(home)
		if err != nil {
			return errors.NewConfigError("error accessing home directory", "browser.home", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("home is not a directory", "browser.home", errors.InvalidConfig, nil)
		}
	}

	if c.Remote.Timeout < 1 {
		return errors.NewConfigError("timeout must be >= 1 second", "remote.timeout", errors.InvalidConfig, nil)
	}

	if c.Panel.DefaultTab != TabLocal && c.Panel.DefaultTab != TabRemote {
		return errors.NewConfigError(fmt.Sprintf("unknown tab %q", c.Panel.DefaultTab), "panel.default_tab", errors.InvalidConfig, nil)
	}

	if c.History.Limit < 0 {
		return errors.NewConfigError("limit must be >= 0", "history.limit", errors.InvalidConfig, nil)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.NewConfigError("path is required when history is enabled", "history.path", errors.InvalidConfig, nil)
	}

	return nil
}

// HomeDir returns the expanded browser home directory, falling back to the
// user's home directory.
func (c *Config) HomeDir() string {
	if c.Browser.Home != "" {
		if home, err := homedir.Expand(c.Browser.Home); err == nil {
			return home
		}
	}
	home, err := homedir.Dir()
	if err != nil {
		return string(filepath.Separator)
	}
	return home
}

// HistoryDir returns the expanded history store directory.
func (c *Config) HistoryDir() string {
	dir, err := homedir.Expand(c.History.Path)
	if err != nil {
		return c.History.Path
	}
	return dir
}

// RemoteTimeout returns the request timeout as a duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.Timeout) * time.Second
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
