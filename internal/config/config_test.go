package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 120*time.Second, cfg.Gateway.DefaultTimeout)
	assert.Equal(t, DefaultMaxTimeout, cfg.Gateway.MaxTimeout)
	assert.Equal(t, DefaultMaxTimeout+10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, DefaultUpstreamURL, cfg.Upstream.BaseURL)
	assert.True(t, cfg.Logging.ConsoleOutput)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, int64(4_000_000), cfg.Server.MaxRequestBytes())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  mode: debug
  max_request_size: 1MiB
gateway:
  default_timeout: 30s
  max_timeout: 30s
logging:
  level: debug
  console_output: false
upstream:
  base_url: http://localhost:11434/v1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxRequestBytes())
	assert.Equal(t, 30*time.Second, cfg.Gateway.DefaultTimeout)
	assert.Equal(t, 30*time.Second, cfg.Gateway.MaxTimeout)
	assert.Equal(t, 40*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.ConsoleOutput)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Upstream.BaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"port out of range", "server.port", 70000, "invalid port"},
		{"unknown mode", "server.mode", "prod", "invalid server mode"},
		{"bad size", "server.max_request_size", "lots", "invalid max_request_size"},
		{"write timeout too short", "server.write_timeout", "5s", "write_timeout"},
		{"write timeout equal to max", "server.write_timeout", "300s", "write_timeout"},
		{"max below default", "gateway.max_timeout", "60s", "max_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			cfg, err := Load(v)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWatch_NoConfigFile(t *testing.T) {
	ok := Watch(viper.New(), nil)
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	out := cfg.Export()
	gateway, ok := out["gateway"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2m0s", gateway["default_timeout"])

	server, ok := out["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 8080, server["port"])
}

func TestLoad_MaxTimeoutFollowsLongDefault(t *testing.T) {
	v := viper.New()
	v.Set("gateway.default_timeout", "10m")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Gateway.MaxTimeout)
	assert.Equal(t, 10*time.Minute+10*time.Second, cfg.Server.WriteTimeout)
}
