package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, filepath.Join(".transcribed", "token"), filepath.Join(filepath.Base(filepath.Dir(cfg.TokenFile)), filepath.Base(cfg.TokenFile)))
}

func TestLoad_Files(t *testing.T) {
	files := map[string]string{
		"c.json": `{"server_url":"https://api.example","request_timeout":"30s"}`,
		"c.toml": "server_url = \"https://api.example\"\nrequest_timeout = \"30s\"\n",
		"c.yaml": "server_url: https://api.example\nrequest_timeout: 30s\n",
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

			cfg, err := Load(p)
			require.NoError(t, err)
			assert.Equal(t, "https://api.example", cfg.ServerURL)
			assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
			assert.Equal(t, DefaultTokenFile(), cfg.TokenFile)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	p := filepath.Join(dir, "c.ini")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	_, err = Load(p)
	assert.Error(t, err)

	p = filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("request_timeout: later\n"), 0o600))
	_, err = Load(p)
	assert.Error(t, err)
}
