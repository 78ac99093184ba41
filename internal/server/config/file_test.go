package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadFile_Formats(t *testing.T) {
	files := map[string]string{
		"conf.json": `{
			"http_addr": ":8080",
			"database_dsn": "postgres://u:p@db:5432/app",
			"access_token_validity_duration": "12h",
			"transcription_timeout": 30000000000,
			"blob_backend": "s3",
			"s3_bucket": "audio",
			"s3_use_path_style": true,
			"cors_origins": ["https://app.example"]
		}`,
		"conf.toml": `
http_addr = ":8080"
database_dsn = "postgres://u:p@db:5432/app"
access_token_validity_duration = "12h"
transcription_timeout = "30s"
blob_backend = "s3"
s3_bucket = "audio"
s3_use_path_style = true
cors_origins = ["https://app.example"]
`,
		"conf.yaml": `
http_addr: ":8080"
database_dsn: postgres://u:p@db:5432/app
access_token_validity_duration: 12h
transcription_timeout: 30s
blob_backend: s3
s3_bucket: audio
s3_use_path_style: true
cors_origins:
  - https://app.example
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			c := &Config{}
			c.LoadDefaults()
			require.NoError(t, LoadFile(c, writeFile(t, name, content)))

			want := &Config{}
			want.LoadDefaults()
			want.HTTPAddr = ":8080"
			want.DatabaseDSN = "postgres://u:p@db:5432/app"
			want.AccessTokenValidityDuration = 12 * time.Hour
			want.TranscriptionTimeout = 30 * time.Second
			want.BlobBackend = BlobBackendS3
			want.S3Bucket = "audio"
			want.S3UsePathStyle = true
			want.CORSOrigins = []string{"https://app.example"}

			if diff := cmp.Diff(want, c); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, LoadFile(c, writeFile(t, "c.yml", "log_level: debug\n")))

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":5001", c.HTTPAddr)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestLoadFile_Errors(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Error(t, LoadFile(c, filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, LoadFile(c, writeFile(t, "c.ini", "a=b")))
	assert.Error(t, LoadFile(c, writeFile(t, "c.json", "{not json")))
	assert.Error(t, LoadFile(c, writeFile(t, "c.toml", `transcription_timeout = "soon"`)))
}

func TestParseFile_FromFlag(t *testing.T) {
	p := writeFile(t, "c.json", `{"grpc_addr": ":50051"}`)

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":9000", "-config", p}

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseFile(c))
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, ":5001", c.HTTPAddr, "flags are applied later")
}
