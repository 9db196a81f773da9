package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Duration wraps time.Duration so config values can be written as "15m".
type Duration struct {
	time.Duration
}

// UnmarshalJSON parses a duration string such as "30s" or "15m".
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("time.ParseDuration(%q): %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalJSON renders the duration back to its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// EntityConfig describes one watched entity within a calendar.
type EntityConfig struct {
	DeviceID           string `json:"device_id"`
	Name               string `json:"name,omitempty"`
	Track              bool   `json:"track"`
	Search             string `json:"search,omitempty"`
	Offset             string `json:"offset,omitempty"`
	IgnoreAvailability bool   `json:"ignore_availability,omitempty"`
}

// CalendarConfig groups the entities watching a single calendar.
type CalendarConfig struct {
	CalID    string         `json:"cal_id"`
	Entities []EntityConfig `json:"entities"`
}

// Config holds the application configuration.
type Config struct {
	DefaultDomain   string           `json:"default_domain"`
	Listen          string           `json:"listen,omitempty"`
	ScanInterval    Duration         `json:"scan_interval,omitempty"`
	MinPollInterval Duration         `json:"min_poll_interval,omitempty"`
	Calendars       []CalendarConfig `json:"calendars"`
}

// Tracked reports whether any entity in the config has tracking enabled.
func (c *Config) Tracked() bool {
	for _, cal := range c.Calendars {
		for _, ent := range cal.Entities {
			if ent.Track {
				return true
			}
		}
	}
	return false
}

// Loader defines methods to load configuration, credentials, and token.
type Loader interface {
	LoadConfig() (*Config, error)
	LoadCredentials() ([]byte, error)
	LoadToken() ([]byte, error)
	SaveToken(token []byte) error
}

// FileLoader implements Loader by reading from the filesystem.
type FileLoader struct {
	configDir string
}

// NewFileLoader initializes a FileLoader with the config directory path.
// The CALWATCH_DIR environment variable overrides the default ~/.calwatch.
func NewFileLoader() (*FileLoader, error) {
	if dir := os.Getenv("CALWATCH_DIR"); dir != "" {
		return &FileLoader{configDir: dir}, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("unable to find user home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".calwatch")
	return &FileLoader{configDir: configDir}, nil
}

// LoadConfig reads the config.json file.
func (f *FileLoader) LoadConfig() (*Config, error) {
	configPath := filepath.Join(f.configDir, "config.json")
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", configPath, err)
	}

	var config Config
	if err := json.Unmarshal(b, &config); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	return &config, nil
}

// LoadCredentials reads the credentials.json file.
func (f *FileLoader) LoadCredentials() ([]byte, error) {
	credentialsPath := filepath.Join(f.configDir, "credentials.json")
	bytes, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", credentialsPath, err)
	}
	return bytes, nil
}

// LoadToken reads the token.json file.
func (f *FileLoader) LoadToken() ([]byte, error) {
	tokenPath := filepath.Join(f.configDir, "token.json")
	bytes, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// SaveToken writes the token.json file.
func (f *FileLoader) SaveToken(token []byte) error {
	tokenPath := filepath.Join(f.configDir, "token.json")
	if err := os.MkdirAll(f.configDir, 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	if err := os.WriteFile(tokenPath, token, 0o600); err != nil {
		return fmt.Errorf("unable to save token: %w", err)
	}
	return nil
}
