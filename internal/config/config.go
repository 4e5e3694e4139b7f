// Package config locates and loads the Moltbook CLI's on-disk state:
// agent credentials and optional preferences.
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

	"github.com/kelexine/moltbook-cli/internal/domain"
)

const (
	DefaultBaseURL = "https://www.moltbook.com/api/v1"
	DefaultTimeout = 30 * time.Second

	defaultDirName  = ".config/moltbook"
	credentialsFile = "credentials.json"
	preferencesFile = "config.yaml"
	historyFile     = "history.db"
)

// Dir returns the configuration directory: MOLTBOOK_CONFIG_DIR when set,
// otherwise ~/.config/moltbook.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("MOLTBOOK_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

func pathIn(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Preferences mirrors config.yaml. Every field is optional.
type Preferences struct {
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	HTTP3       bool   `yaml:"http3"`
	History     *bool  `yaml:"history"`
	HistoryPath string `yaml:"history_path"`
	Color       string `yaml:"color"`
}

// LoadPreferences reads config.yaml. A missing file yields zero Preferences.
func LoadPreferences() (Preferences, error) {
	path, err := pathIn(preferencesFile)
	if err != nil {
		return Preferences{}, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, err
	}
	var p Preferences
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preferences{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// Settings is the effective runtime configuration.
type Settings struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	HTTP3       bool
	History     bool
	HistoryPath string
	Color       string
}

// Flags carries command-line overrides. Zero values mean "not set".
type Flags struct {
	BaseURL string
	HTTP3   bool
	Color   string
}

// Resolve merges defaults, config.yaml, environment and flags, in
// increasing order of precedence. APIKey is only set from
// MOLTBOOK_API_KEY; stored credentials are loaded separately.
func Resolve(flags Flags) (Settings, error) {
	s := Settings{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
		History: true,
		Color:   "auto",
	}

	prefs, err := LoadPreferences()
	if err != nil {
		return s, err
	}
	if v := strings.TrimSpace(prefs.BaseURL); v != "" {
		s.BaseURL = v
	}
	if v := strings.TrimSpace(prefs.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("config.yaml timeout: %w", err)
		}
		s.Timeout = d
	}
	s.HTTP3 = prefs.HTTP3
	if prefs.History != nil {
		s.History = *prefs.History
	}
	s.HistoryPath = strings.TrimSpace(prefs.HistoryPath)
	if v := strings.TrimSpace(prefs.Color); v != "" {
		s.Color = v
	}

	s.BaseURL = envOrDefault("MOLTBOOK_API_BASE", s.BaseURL)
	s.APIKey = strings.TrimSpace(os.Getenv("MOLTBOOK_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("MOLTBOOK_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("MOLTBOOK_TIMEOUT: %w", err)
		}
		s.Timeout = d
	}
	s.HTTP3 = envBoolOrDefault("MOLTBOOK_HTTP3", s.HTTP3)
	s.History = envBoolOrDefault("MOLTBOOK_HISTORY", s.History)

	if v := strings.TrimSpace(flags.BaseURL); v != "" {
		s.BaseURL = v
	}
	if flags.HTTP3 {
		s.HTTP3 = true
	}
	if v := strings.TrimSpace(flags.Color); v != "" {
		s.Color = v
	}

	if s.Timeout <= 0 {
		return s, errors.New("timeout must be > 0")
	}
	switch s.Color {
	case "auto", "always", "never":
	default:
		return s, fmt.Errorf("color must be one of: auto, always, never (got %q)", s.Color)
	}
	if s.History && s.HistoryPath == "" {
		path, err := pathIn(historyFile)
		if err != nil {
			return s, err
		}
		s.HistoryPath = path
	}
	return s, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// notConfigured wraps domain.ErrNotConfigured with the offending path.
func notConfigured(path string) error {
	return fmt.Errorf("%w: config file not found at %s", domain.ErrNotConfigured, path)
}
