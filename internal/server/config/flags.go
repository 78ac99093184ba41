package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-q", "-s", "-t", "-audio", "-provider", "-ffprobe", "-redis", "-cors", "-log-level"}

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g. ":5001")
//	-g string          gRPC health bind address, empty disables
//	-d string          PostgreSQL DSN
//	-q string          SQLite database path
//	-s string          JWT HMAC secret key
//	-t duration        access token validity (e.g. "24h")
//	-audio string      audio directory for the fs backend
//	-provider string   transcription provider
//	-ffprobe string    ffprobe binary, empty disables probing
//	-redis string      Redis address for token revocation
//	-cors string       comma separated allowed origins
//	-log-level string  debug, info, warn or error
//
// os.Args is filtered with flagx.FilterArgs first so the -c/-config flag
// handled elsewhere does not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&config.SQLitePath, "q", config.SQLitePath, "SQLite database path")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.StringVar(&config.AudioDir, "audio", config.AudioDir, "audio directory")
	fs.StringVar(&config.TranscriptionProvider, "provider", config.TranscriptionProvider, "transcription provider")
	fs.StringVar(&config.FFprobeBinary, "ffprobe", config.FFprobeBinary, "ffprobe binary")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "Redis address")
	cors := fs.String("cors", strings.Join(config.CORSOrigins, ","), "allowed CORS origins")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.CORSOrigins = splitList(*cors)
	return nil
}
