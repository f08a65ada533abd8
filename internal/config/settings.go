package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir           string  `json:"output_dir" yaml:"output_dir"`
	MatchType           string  `json:"match_type" yaml:"match_type"` // exact, prefix, host, domain
	Concurrency         int     `json:"concurrency" yaml:"concurrency"`
	FetchTimeoutSeconds float64 `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
	ListTimeoutSeconds  float64 `json:"list_timeout_seconds" yaml:"list_timeout_seconds"`
	UserAgent           string  `json:"user_agent" yaml:"user_agent"`

	// Archive endpoints
	CDXEndpoint string `json:"cdx_endpoint" yaml:"cdx_endpoint"`
	ArchiveBase string `json:"archive_base" yaml:"archive_base"`

	// Observability
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
	Verbose     bool   `json:"verbose" yaml:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputDir:           "",
		MatchType:           "prefix",
		Concurrency:         5,
		FetchTimeoutSeconds: 15,
		ListTimeoutSeconds:  30,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",

		CDXEndpoint: "https://web.archive.org/cdx/search/cdx",
		ArchiveBase: "https://web.archive.org",

		MetricsAddr: "",
		Verbose:     false,
	}
}

// Validate ensures all configuration values are coherent.
//
// MatchType is only checked for presence; the index service decides which
// values it accepts.
func (s *Settings) Validate() error {
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if strings.TrimSpace(s.MatchType) == "" {
		return fmt.Errorf("match type cannot be empty")
	}
	if s.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if s.ListTimeoutSeconds <= 0 {
		return fmt.Errorf("list timeout must be positive")
	}
	if s.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if err := validateURL("CDX endpoint", s.CDXEndpoint); err != nil {
		return err
	}
	if err := validateURL("archive base", s.ArchiveBase); err != nil {
		return err
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}

// FetchTimeout returns the per-snapshot download timeout.
func (s *Settings) FetchTimeout() time.Duration {
	return seconds(s.FetchTimeoutSeconds)
}

// ListTimeout returns the timeout for the index query.
func (s *Settings) ListTimeout() time.Duration {
	return seconds(s.ListTimeoutSeconds)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Load reads settings from a JSON or YAML file, chosen by extension
// (.yaml and .yml are YAML, anything else is JSON). Fields absent from the
// file keep their defaults. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
