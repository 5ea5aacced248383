package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runger/flick/internal/match"
	"github.com/runger/flick/internal/rank"
)

// Config represents the flick configuration.
type Config struct {
	Ranking   RankingConfig   `yaml:"ranking"`
	Picker    PickerConfig    `yaml:"picker"`
	Apps      AppsConfig      `yaml:"apps"`
	Dmenu     DmenuConfig     `yaml:"dmenu"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Log       LogConfig       `yaml:"log"`
}

// RankingConfig holds scorer settings.
type RankingConfig struct {
	Mode             string `yaml:"mode"`               // fuzzy or exact
	Matcher          string `yaml:"matcher"`            // fzf or sahilm
	PrefixDepth      int    `yaml:"prefix_depth"`       // Query length up to which word starts are checked
	FrecencyTauHours int    `yaml:"frecency_tau_hours"` // Usage decay time constant
}

// PickerConfig holds interactive list settings.
type PickerConfig struct {
	HardStop   bool   `yaml:"hard_stop"`   // Stop at list ends instead of wrapping
	MaxVisible int    `yaml:"max_visible"` // Rows shown at once (0 = fit terminal)
	Mouse      bool   `yaml:"mouse"`       // Click to select
	Prompt     string `yaml:"prompt"`      // Query prompt
}

// AppsConfig holds desktop application settings.
type AppsConfig struct {
	ExtraDirs []string `yaml:"extra_dirs"` // Searched before the XDG application dirs
	Terminal  string   `yaml:"terminal"`   // Wrapper for Terminal=true entries
	Locale    string   `yaml:"locale"`     // Overrides LC_MESSAGES/LANG
	Desktops  []string `yaml:"desktops"`   // Overrides XDG_CURRENT_DESKTOP
	Cache     bool     `yaml:"cache"`      // Cache parsed desktop entries
}

// DmenuConfig holds stdin line mode settings.
type DmenuConfig struct {
	Delimiter string `yaml:"delimiter"` // Column delimiter (empty = whitespace)
}

// ClipboardConfig holds clipboard history settings.
type ClipboardConfig struct {
	ListCommand    string `yaml:"list_command"`    // Prints "id<TAB>preview" rows
	DecodeCommand  string `yaml:"decode_command"`  // Reads a row on stdin, prints content
	TimeoutMs      int    `yaml:"timeout_ms"`      // Per-command timeout
	RedactPreviews bool   `yaml:"redact_previews"` // Mask secrets in previews
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ranking: RankingConfig{
			Mode:             "fuzzy",
			Matcher:          match.NameFZF,
			PrefixDepth:      rank.DefaultPrefixDepth,
			FrecencyTauHours: 168,
		},
		Picker: PickerConfig{
			HardStop:   false,
			MaxVisible: 0,
			Mouse:      true,
			Prompt:     "> ",
		},
		Apps: AppsConfig{
			Terminal: "x-terminal-emulator -e",
			Cache:    true,
		},
		Dmenu: DmenuConfig{
			Delimiter: "",
		},
		Clipboard: ClipboardConfig{
			ListCommand:    "cliphist list",
			DecodeCommand:  "cliphist decode",
			TimeoutMs:      3000,
			RedactPreviews: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "", // Use default from paths
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

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
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Tau returns the frecency decay time constant.
func (c *Config) Tau() time.Duration {
	return time.Duration(c.Ranking.FrecencyTauHours) * time.Hour
}

// ClipTimeout returns the clipboard command timeout.
func (c *Config) ClipTimeout() time.Duration {
	return time.Duration(c.Clipboard.TimeoutMs) * time.Millisecond
}

// Get retrieves a configuration value by dot-separated key.
// For example: "ranking.mode" or "picker.hard_stop"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "ranking":
		return c.getRankingField(field)
	case "picker":
		return c.getPickerField(field)
	case "apps":
		return c.getAppsField(field)
	case "dmenu":
		return c.getDmenuField(field)
	case "clipboard":
		return c.getClipboardField(field)
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
	case "ranking":
		return c.setRankingField(field, value)
	case "picker":
		return c.setPickerField(field, value)
	case "apps":
		return c.setAppsField(field, value)
	case "dmenu":
		return c.setDmenuField(field, value)
	case "clipboard":
		return c.setClipboardField(field, value)
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

func (c *Config) getRankingField(field string) (string, error) {
	switch field {
	case "mode":
		return c.Ranking.Mode, nil
	case "matcher":
		return c.Ranking.Matcher, nil
	case "prefix_depth":
		return strconv.Itoa(c.Ranking.PrefixDepth), nil
	case "frecency_tau_hours":
		return strconv.Itoa(c.Ranking.FrecencyTauHours), nil
	default:
		return "", fmt.Errorf("unknown field: ranking.%s", field)
	}
}

func (c *Config) setRankingField(field, value string) error {
	switch field {
	case "mode":
		if _, err := rank.ParseMode(value); err != nil {
			return err
		}
		c.Ranking.Mode = value
	case "matcher":
		if !match.IsValidName(value) {
			return fmt.Errorf("invalid matcher: %s (must be %s or %s)", value, match.NameFZF, match.NameSahilm)
		}
		c.Ranking.Matcher = value
	case "prefix_depth":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for prefix_depth: %w", err)
		}
		c.Ranking.PrefixDepth = clampPrefixDepth(v)
	case "frecency_tau_hours":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for frecency_tau_hours: %w", err)
		}
		if v < 1 {
			return fmt.Errorf("invalid frecency_tau_hours: must be at least 1")
		}
		c.Ranking.FrecencyTauHours = v
	default:
		return fmt.Errorf("unknown field: ranking.%s", field)
	}
	return nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "hard_stop":
		return strconv.FormatBool(c.Picker.HardStop), nil
	case "max_visible":
		return strconv.Itoa(c.Picker.MaxVisible), nil
	case "mouse":
		return strconv.FormatBool(c.Picker.Mouse), nil
	case "prompt":
		return c.Picker.Prompt, nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "hard_stop":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for hard_stop: %w", err)
		}
		c.Picker.HardStop = v
	case "max_visible":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_visible: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("invalid max_visible: must be non-negative")
		}
		c.Picker.MaxVisible = v
	case "mouse":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for mouse: %w", err)
		}
		c.Picker.Mouse = v
	case "prompt":
		c.Picker.Prompt = value
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getAppsField(field string) (string, error) {
	switch field {
	case "extra_dirs":
		return strings.Join(c.Apps.ExtraDirs, ","), nil
	case "terminal":
		return c.Apps.Terminal, nil
	case "locale":
		return c.Apps.Locale, nil
	case "desktops":
		return strings.Join(c.Apps.Desktops, ","), nil
	case "cache":
		return strconv.FormatBool(c.Apps.Cache), nil
	default:
		return "", fmt.Errorf("unknown field: apps.%s", field)
	}
}

func (c *Config) setAppsField(field, value string) error {
	switch field {
	case "extra_dirs":
		c.Apps.ExtraDirs = splitCSV(value)
	case "terminal":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid terminal: must not be empty")
		}
		c.Apps.Terminal = value
	case "locale":
		c.Apps.Locale = value
	case "desktops":
		c.Apps.Desktops = splitCSV(value)
	case "cache":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for cache: %w", err)
		}
		c.Apps.Cache = v
	default:
		return fmt.Errorf("unknown field: apps.%s", field)
	}
	return nil
}

func (c *Config) getDmenuField(field string) (string, error) {
	switch field {
	case "delimiter":
		return c.Dmenu.Delimiter, nil
	default:
		return "", fmt.Errorf("unknown field: dmenu.%s", field)
	}
}

func (c *Config) setDmenuField(field, value string) error {
	switch field {
	case "delimiter":
		c.Dmenu.Delimiter = value
	default:
		return fmt.Errorf("unknown field: dmenu.%s", field)
	}
	return nil
}

func (c *Config) getClipboardField(field string) (string, error) {
	switch field {
	case "list_command":
		return c.Clipboard.ListCommand, nil
	case "decode_command":
		return c.Clipboard.DecodeCommand, nil
	case "timeout_ms":
		return strconv.Itoa(c.Clipboard.TimeoutMs), nil
	case "redact_previews":
		return strconv.FormatBool(c.Clipboard.RedactPreviews), nil
	default:
		return "", fmt.Errorf("unknown field: clipboard.%s", field)
	}
}

func (c *Config) setClipboardField(field, value string) error {
	switch field {
	case "list_command":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid list_command: must not be empty")
		}
		c.Clipboard.ListCommand = value
	case "decode_command":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid decode_command: must not be empty")
		}
		c.Clipboard.DecodeCommand = value
	case "timeout_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for timeout_ms: %w", err)
		}
		if v <= 0 {
			return fmt.Errorf("invalid timeout_ms: must be positive")
		}
		c.Clipboard.TimeoutMs = v
	case "redact_previews":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for redact_previews: %w", err)
		}
		c.Clipboard.RedactPreviews = v
	default:
		return fmt.Errorf("unknown field: clipboard.%s", field)
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

// Validate validates the configuration. Out-of-range numbers are clamped;
// unknown names are errors.
func (c *Config) Validate() error {
	if _, err := rank.ParseMode(c.Ranking.Mode); err != nil {
		return fmt.Errorf("ranking.mode: %w", err)
	}

	if !match.IsValidName(c.Ranking.Matcher) {
		return fmt.Errorf("ranking.matcher must be %s or %s (got: %s)", match.NameFZF, match.NameSahilm, c.Ranking.Matcher)
	}

	c.Ranking.PrefixDepth = clampPrefixDepth(c.Ranking.PrefixDepth)

	if c.Ranking.FrecencyTauHours < 1 {
		c.Ranking.FrecencyTauHours = 1
	}

	if c.Picker.MaxVisible < 0 {
		return errors.New("picker.max_visible must be >= 0")
	}

	if c.Clipboard.TimeoutMs <= 0 {
		return errors.New("clipboard.timeout_ms must be > 0")
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

// Prefix depth is clamped to [1, 16].
func clampPrefixDepth(v int) int {
	if v < 1 {
		return 1
	}
	if v > 16 {
		return 16
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

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FLICK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("FLICK_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("FLICK_RANKING_MODE"); v != "" {
		if _, err := rank.ParseMode(v); err == nil {
			c.Ranking.Mode = v
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"ranking.mode",
		"ranking.matcher",
		"ranking.prefix_depth",
		"ranking.frecency_tau_hours",
		"picker.hard_stop",
		"picker.max_visible",
		"picker.mouse",
		"picker.prompt",
		"apps.extra_dirs",
		"apps.terminal",
		"apps.locale",
		"apps.desktops",
		"apps.cache",
		"dmenu.delimiter",
		"clipboard.list_command",
		"clipboard.decode_command",
		"clipboard.timeout_ms",
		"clipboard.redact_previews",
		"log.level",
		"log.file",
	}
}
