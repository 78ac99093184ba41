// Package config handles configuration for the server component: defaults,
// an optional JSON/TOML/YAML file, .env and environment variables, and
// command-line flags, applied in that order.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	BlobBackendFS = "fs"
	BlobBackendS3 = "s3"
)

// Config holds runtime settings for the transcription server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses; an empty GRPCAddr disables the
//     gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). When empty, SQLite at SQLitePath is used.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - BlobBackend: "fs" (AudioDir) or "s3" (S3* fields).
//   - TranscriptionProvider: "openai", "huggingface" or "local".
//   - RedisAddr: enables token revocation on logout when set.
type Config struct {
	HTTPAddr string
	GRPCAddr string

	DatabaseDSN string
	SQLitePath  string

	SecretKey                   string
	AccessTokenValidityDuration time.Duration

	BlobBackend    string
	AudioDir       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	S3PresignAudio bool
	S3PresignTTL   time.Duration

	TranscriptionProvider string
	TranscriptionTimeout  time.Duration
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	HFAPIToken            string
	HFModel               string
	HFBaseURL             string
	LocalWhisperBinary    string
	LocalWhisperModel     string
	FFprobeBinary         string

	MaxUploadSize int
	CORSOrigins   []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel        string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5001"
	c.GRPCAddr = ""
	c.DatabaseDSN = ""
	c.SQLitePath = "database.db"
	c.SecretKey = "a-very-strong-default-secret-key"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.BlobBackend = BlobBackendFS
	c.AudioDir = "audio_files"
	c.S3Region = "us-east-1"
	c.S3PresignTTL = 15 * time.Minute
	c.TranscriptionProvider = "openai"
	c.TranscriptionTimeout = 2 * time.Minute
	c.OpenAIModel = "whisper-1"
	c.HFModel = "openai/whisper-large-v3"
	c.LocalWhisperBinary = "whisper-cli"
	c.MaxUploadSize = 25 << 20
	c.CORSOrigins = []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"https://*.netlify.app",
	}
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, then the file named by -c/-config,
// then .env and the environment, then command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backends and providers and missing required
// settings.
func (c *Config) Validate() error {
	switch c.BlobBackend {
	case BlobBackendFS:
		if c.AudioDir == "" {
			return fmt.Errorf("config: audio dir must be set for the fs backend")
		}
	case BlobBackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("config: s3 bucket must be set for the s3 backend")
		}
	default:
		return fmt.Errorf("config: unknown blob backend %q", c.BlobBackend)
	}

	switch strings.ToLower(c.TranscriptionProvider) {
	case "openai", "huggingface", "local":
	default:
		return fmt.Errorf("config: unknown transcription provider %q", c.TranscriptionProvider)
	}

	if c.SecretKey == "" {
		return fmt.Errorf("config: secret key must not be empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("config: access token validity must be positive")
	}
	if c.TranscriptionTimeout <= 0 {
		return fmt.Errorf("config: transcription timeout must be positive")
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("config: max upload size must be positive")
	}
	if c.DatabaseDSN == "" && c.SQLitePath == "" {
		return fmt.Errorf("config: either a database dsn or a sqlite path is required")
	}
	return nil
}
