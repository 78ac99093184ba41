package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/flagx"
	"github.com/dmitrijs2005/transcribed/internal/timex"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations use timex.Duration so
// they can be written as "90s" strings (or integer nanoseconds in JSON).
// Keys absent from the file keep their previous values.
type FileConfig struct {
	HTTPAddr string `json:"http_addr" toml:"http_addr" yaml:"http_addr"`
	GRPCAddr string `json:"grpc_addr" toml:"grpc_addr" yaml:"grpc_addr"`

	DatabaseDSN string `json:"database_dsn" toml:"database_dsn" yaml:"database_dsn"`
	SQLitePath  string `json:"sqlite_path" toml:"sqlite_path" yaml:"sqlite_path"`

	SecretKey                   string         `json:"secret_key" toml:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" toml:"access_token_validity_duration" yaml:"access_token_validity_duration"`

	BlobBackend    string         `json:"blob_backend" toml:"blob_backend" yaml:"blob_backend"`
	AudioDir       string         `json:"audio_dir" toml:"audio_dir" yaml:"audio_dir"`
	S3Bucket       string         `json:"s3_bucket" toml:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string         `json:"s3_region" toml:"s3_region" yaml:"s3_region"`
	S3Endpoint     string         `json:"s3_endpoint" toml:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey    string         `json:"s3_access_key" toml:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key" toml:"s3_secret_key" yaml:"s3_secret_key"`
	S3UsePathStyle bool           `json:"s3_use_path_style" toml:"s3_use_path_style" yaml:"s3_use_path_style"`
	S3PresignAudio bool           `json:"s3_presign_audio" toml:"s3_presign_audio" yaml:"s3_presign_audio"`
	S3PresignTTL   timex.Duration `json:"s3_presign_ttl" toml:"s3_presign_ttl" yaml:"s3_presign_ttl"`

	TranscriptionProvider string         `json:"transcription_provider" toml:"transcription_provider" yaml:"transcription_provider"`
	TranscriptionTimeout  timex.Duration `json:"transcription_timeout" toml:"transcription_timeout" yaml:"transcription_timeout"`
	OpenAIAPIKey          string         `json:"openai_api_key" toml:"openai_api_key" yaml:"openai_api_key"`
	OpenAIModel           string         `json:"openai_model" toml:"openai_model" yaml:"openai_model"`
	OpenAIBaseURL         string         `json:"openai_base_url" toml:"openai_base_url" yaml:"openai_base_url"`
	HFAPIToken            string         `json:"hf_api_token" toml:"hf_api_token" yaml:"hf_api_token"`
	HFModel               string         `json:"hf_model" toml:"hf_model" yaml:"hf_model"`
	HFBaseURL             string         `json:"hf_base_url" toml:"hf_base_url" yaml:"hf_base_url"`
	LocalWhisperBinary    string         `json:"local_whisper_binary" toml:"local_whisper_binary" yaml:"local_whisper_binary"`
	LocalWhisperModel     string         `json:"local_whisper_model" toml:"local_whisper_model" yaml:"local_whisper_model"`
	FFprobeBinary         string         `json:"ffprobe_binary" toml:"ffprobe_binary" yaml:"ffprobe_binary"`

	MaxUploadSize int      `json:"max_upload_size" toml:"max_upload_size" yaml:"max_upload_size"`
	CORSOrigins   []string `json:"cors_origins" toml:"cors_origins" yaml:"cors_origins"`

	RedisAddr     string `json:"redis_addr" toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `json:"redis_password" toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `json:"redis_db" toml:"redis_db" yaml:"redis_db"`

	LogLevel        string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func fromConfig(c *Config) *FileConfig {
	return &FileConfig{
		HTTPAddr:                    c.HTTPAddr,
		GRPCAddr:                    c.GRPCAddr,
		DatabaseDSN:                 c.DatabaseDSN,
		SQLitePath:                  c.SQLitePath,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		BlobBackend:                 c.BlobBackend,
		AudioDir:                    c.AudioDir,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3Endpoint:                  c.S3Endpoint,
		S3AccessKey:                 c.S3AccessKey,
		S3SecretKey:                 c.S3SecretKey,
		S3UsePathStyle:              c.S3UsePathStyle,
		S3PresignAudio:              c.S3PresignAudio,
		S3PresignTTL:                timex.Duration{Duration: c.S3PresignTTL},
		TranscriptionProvider:       c.TranscriptionProvider,
		TranscriptionTimeout:        timex.Duration{Duration: c.TranscriptionTimeout},
		OpenAIAPIKey:                c.OpenAIAPIKey,
		OpenAIModel:                 c.OpenAIModel,
		OpenAIBaseURL:               c.OpenAIBaseURL,
		HFAPIToken:                  c.HFAPIToken,
		HFModel:                     c.HFModel,
		HFBaseURL:                   c.HFBaseURL,
		LocalWhisperBinary:          c.LocalWhisperBinary,
		LocalWhisperModel:           c.LocalWhisperModel,
		FFprobeBinary:               c.FFprobeBinary,
		MaxUploadSize:               c.MaxUploadSize,
		CORSOrigins:                 c.CORSOrigins,
		RedisAddr:                   c.RedisAddr,
		RedisPassword:               c.RedisPassword,
		RedisDB:                     c.RedisDB,
		LogLevel:                    c.LogLevel,
		ShutdownTimeout:             timex.Duration{Duration: c.ShutdownTimeout},
	}
}

func (f *FileConfig) apply(c *Config) {
	c.HTTPAddr = f.HTTPAddr
	c.GRPCAddr = f.GRPCAddr
	c.DatabaseDSN = f.DatabaseDSN
	c.SQLitePath = f.SQLitePath
	c.SecretKey = f.SecretKey
	c.AccessTokenValidityDuration = f.AccessTokenValidityDuration.Duration
	c.BlobBackend = f.BlobBackend
	c.AudioDir = f.AudioDir
	c.S3Bucket = f.S3Bucket
	c.S3Region = f.S3Region
	c.S3Endpoint = f.S3Endpoint
	c.S3AccessKey = f.S3AccessKey
	c.S3SecretKey = f.S3SecretKey
	c.S3UsePathStyle = f.S3UsePathStyle
	c.S3PresignAudio = f.S3PresignAudio
	c.S3PresignTTL = f.S3PresignTTL.Duration
	c.TranscriptionProvider = f.TranscriptionProvider
	c.TranscriptionTimeout = f.TranscriptionTimeout.Duration
	c.OpenAIAPIKey = f.OpenAIAPIKey
	c.OpenAIModel = f.OpenAIModel
	c.OpenAIBaseURL = f.OpenAIBaseURL
	c.HFAPIToken = f.HFAPIToken
	c.HFModel = f.HFModel
	c.HFBaseURL = f.HFBaseURL
	c.LocalWhisperBinary = f.LocalWhisperBinary
	c.LocalWhisperModel = f.LocalWhisperModel
	c.FFprobeBinary = f.FFprobeBinary
	c.MaxUploadSize = f.MaxUploadSize
	c.CORSOrigins = f.CORSOrigins
	c.RedisAddr = f.RedisAddr
	c.RedisPassword = f.RedisPassword
	c.RedisDB = f.RedisDB
	c.LogLevel = f.LogLevel
	c.ShutdownTimeout = f.ShutdownTimeout.Duration
}

// parseFile overlays the file named by -c/-config, if any.
func parseFile(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return LoadFile(config, path)
}

// LoadFile overlays path onto config. The format follows the extension:
// .json, .toml, .yaml or .yml.
func LoadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	fc := fromConfig(config)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, fc)
	case ".toml":
		err = toml.Unmarshal(data, fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		return fmt.Errorf("config: unsupported file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}
