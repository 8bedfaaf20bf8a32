package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uvq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApplyFileFillsUnsetValues(t *testing.T) {
	path := writeConfigFile(t, `
backend_url: http://backend:8000
poll_interval: 45s
wal_dir: /var/uvq/wal
web_addr: ":9090"
log_path: /var/log/uvq.log
`)

	cfg := Config{}
	require.NoError(t, cfg.applyFile(path, map[string]bool{}))

	assert.Equal(t, "http://backend:8000", cfg.BackendURL)
	assert.Equal(t, 45*time.Second, cfg.PollInterval)
	assert.Equal(t, "/var/uvq/wal", cfg.WALDir)
	assert.Equal(t, ":9090", cfg.WebAddr)
	assert.Equal(t, "/var/log/uvq.log", cfg.LogPath)
}

func TestApplyFileExplicitFlagsBeatFile(t *testing.T) {
	path := writeConfigFile(t, `
backend_url: http://file:8000
poll_interval: 45s
wal_dir: /file/wal
log_path: file.log
`)

	cfg := Config{
		BackendURL:   "http://flag:8000",
		PollInterval: 10 * time.Second,
		WALDir:       "/flag/wal",
		LogPath:      "flag.log",
	}
	setFlags := map[string]bool{
		"backend":       true,
		"poll-interval": true,
		"wal-dir":       true,
		"log":           true,
	}
	require.NoError(t, cfg.applyFile(path, setFlags))

	assert.Equal(t, "http://flag:8000", cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, "/flag/wal", cfg.WALDir)
	assert.Equal(t, "flag.log", cfg.LogPath)
}

func TestApplyFileDefaultsLoseToFile(t *testing.T) {
	path := writeConfigFile(t, `
backend_url: http://file:8000
poll_interval: 45s
`)

	// flag defaults carried over without the flag being set explicitly
	cfg := Config{PollInterval: 30 * time.Second}
	require.NoError(t, cfg.applyFile(path, map[string]bool{}))

	assert.Equal(t, 45*time.Second, cfg.PollInterval)
}

func TestApplyFileRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "backend_url: [unterminated")

	cfg := Config{}
	require.Error(t, cfg.applyFile(path, map[string]bool{}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid http", cfg: Config{BackendURL: "http://localhost:8000"}},
		{name: "valid https", cfg: Config{BackendURL: "https://uvq.example.com"}},
		{name: "missing url", cfg: Config{}, wantErr: true},
		{name: "bad scheme", cfg: Config{BackendURL: "ftp://host"}, wantErr: true},
		{name: "no host", cfg: Config{BackendURL: "http://"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
