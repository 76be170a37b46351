package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
auth:
  jwt_secret: a-long-enough-test-secret
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "mock", cfg.Auth.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 5s
storage:
  backend: sqlite
  path: /tmp/blog.db
  watch_interval: 2s
auth:
  mode: mock
  jwt_secret: a-long-enough-test-secret
  oauth:
    github:
      client_id: gh-id
      client_secret: gh-secret
      redirect_url: http://localhost:9090/api/auth/callback
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 2*time.Second, cfg.Storage.WatchInterval)
	assert.Equal(t, "gh-id", cfg.Auth.OAuth["github"].ClientID)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("BLOG_TEST_SECRET", "secret-from-environment")

	cfg, err := Load(writeConfig(t, `
auth:
  jwt_secret: ${BLOG_TEST_SECRET}
`))
	require.NoError(t, err)
	assert.Equal(t, "secret-from-environment", cfg.Auth.JWTSecret)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "mock mode without secret",
			content: "auth:\n  mode: mock\n",
			wantErr: "jwt_secret",
		},
		{
			name:    "remote mode without url",
			content: "auth:\n  mode: remote\n",
			wantErr: "auth.remote.url",
		},
		{
			name:    "unknown backend",
			content: "storage:\n  backend: redis\nauth:\n  jwt_secret: a-long-enough-test-secret\n",
			wantErr: "storage.backend",
		},
		{
			name:    "unknown auth mode",
			content: "auth:\n  mode: ldap\n",
			wantErr: "auth.mode",
		},
		{
			name:    "bad duration",
			content: "server:\n  shutdown_timeout: soon\nauth:\n  jwt_secret: a-long-enough-test-secret\n",
			wantErr: "shutdown_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRemoteModeConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
auth:
  mode: remote
  remote:
    url: https://abc.supabase.co
    api_key: anon-key
`))
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.Auth.Remote.URL)
}
