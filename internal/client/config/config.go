// Package config holds the CLI client settings: defaults, then an optional
// JSON/TOML/YAML file, then command-line flags applied by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/timex"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the transcription API.
//   - TokenFile: where the access token is cached between runs.
//   - RequestTimeout: per-request limit; uploads wait for transcription.
type Config struct {
	ServerURL      string
	TokenFile      string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5001"
	c.TokenFile = DefaultTokenFile()
	c.RequestTimeout = 5 * time.Minute
}

// DefaultTokenFile is ~/.transcribed/token, or a path relative to the
// working directory when the home directory is unknown.
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".transcribed", "token")
	}
	return filepath.Join(home, ".transcribed", "token")
}

// Load returns defaults overlaid with the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FileConfig is the on-disk form of Config.
type FileConfig struct {
	ServerURL      string         `json:"server_url" toml:"server_url" yaml:"server_url"`
	TokenFile      string         `json:"token_file" toml:"token_file" yaml:"token_file"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
}

// LoadFile overlays path onto cfg; keys absent from the file keep their
// values. The format follows the extension.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	fc := FileConfig{
		ServerURL:      cfg.ServerURL,
		TokenFile:      cfg.TokenFile,
		RequestTimeout: timex.Duration{Duration: cfg.RequestTimeout},
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("config: unsupported file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ServerURL = fc.ServerURL
	cfg.TokenFile = fc.TokenFile
	cfg.RequestTimeout = fc.RequestTimeout.Duration
	return nil
}
