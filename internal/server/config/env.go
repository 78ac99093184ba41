package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var envFile = ".env"

// parseEnv loads .env (without overriding variables already set) and then
// overlays the recognised environment variables.
func parseEnv(config *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", envFile, err)
	}
	return applyEnv(config, os.LookupEnv)
}

type lookupFunc func(key string) (string, bool)

func applyEnv(c *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.HTTPAddr = ":" + port
	}
	str("HTTP_ADDR", &c.HTTPAddr)
	str("GRPC_ADDR", &c.GRPCAddr)
	str("DATABASE_URL", &c.DatabaseDSN)
	str("SQLITE_PATH", &c.SQLitePath)
	str("JWT_SECRET_KEY", &c.SecretKey)
	dur("ACCESS_TOKEN_TTL", &c.AccessTokenValidityDuration)

	str("BLOB_BACKEND", &c.BlobBackend)
	str("AUDIO_DIR", &c.AudioDir)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_ENDPOINT", &c.S3Endpoint)
	str("S3_ACCESS_KEY", &c.S3AccessKey)
	str("S3_SECRET_KEY", &c.S3SecretKey)
	flag("S3_USE_PATH_STYLE", &c.S3UsePathStyle)
	flag("S3_PRESIGN_AUDIO", &c.S3PresignAudio)
	dur("S3_PRESIGN_TTL", &c.S3PresignTTL)

	str("TRANSCRIPTION_PROVIDER", &c.TranscriptionProvider)
	dur("TRANSCRIPTION_TIMEOUT", &c.TranscriptionTimeout)
	str("OPENAI_API_KEY", &c.OpenAIAPIKey)
	str("OPENAI_MODEL", &c.OpenAIModel)
	str("OPENAI_BASE_URL", &c.OpenAIBaseURL)
	str("HF_API_TOKEN", &c.HFAPIToken)
	str("HF_MODEL", &c.HFModel)
	str("HF_BASE_URL", &c.HFBaseURL)
	str("WHISPER_BINARY", &c.LocalWhisperBinary)
	str("WHISPER_MODEL", &c.LocalWhisperModel)
	str("FFPROBE_BINARY", &c.FFprobeBinary)

	num("MAX_UPLOAD_SIZE", &c.MaxUploadSize)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}

	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	num("REDIS_DB", &c.RedisDB)
	str("LOG_LEVEL", &c.LogLevel)
	dur("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
