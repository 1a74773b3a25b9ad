package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmcp/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TASKMCP_TRANSPORT", "TASKMCP_ADDR", "TASKMCP_LOG_LEVEL",
		"TASKMCP_GOOGLE_LIST", "TASKMCP_GOOGLE_EXPORT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(body), 0600))
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.DefaultServerName, cfg.Server.Name)
	assert.Equal(t, config.TransportStdio, cfg.Server.Transport)
	assert.Equal(t, config.DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Google.Export)
	assert.Equal(t, config.DefaultGoogleList, cfg.Google.List)
}

func TestNew_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
[server]
transport = "HTTP"
addr = "127.0.0.1:9000"

[log]
level = "debug"
format = "json"

[google]
export = true
list = "Agent"
`)

	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, config.TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, config.DefaultServerName, cfg.Server.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Google.Export)
	assert.Equal(t, "Agent", cfg.Google.List)
}

func TestNew_NormalizesLogFormat(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "[log]\nformat = \" JSON \"\n")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
[server]
addr = ":9000"
`)
	t.Setenv("TASKMCP_ADDR", ":7000")
	t.Setenv("TASKMCP_GOOGLE_EXPORT", "true")
	t.Setenv("TASKMCP_GOOGLE_LIST", "Inbox")

	cfg, err := config.New(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.True(t, cfg.Google.Export)
	assert.Equal(t, "Inbox", cfg.Google.List)
}

func TestNew_InvalidTransport(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKMCP_TRANSPORT", "carrier-pigeon")

	_, err := config.New(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func TestNew_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "[server\n")

	_, err := config.New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ConfigFile)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", config.AppName), config.DefaultConfigDir())
}

func TestTokenHelpers(t *testing.T) {
	clearEnv(t)
	cfg, err := config.New(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)

	assert.False(t, cfg.HasToken())
	assert.False(t, cfg.HasOAuthClient())

	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600))
	assert.True(t, cfg.HasToken())

	require.NoError(t, cfg.RemoveToken())
	assert.False(t, cfg.HasToken())
}
