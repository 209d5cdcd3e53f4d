package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", cfg.Addr)
	require.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	require.Equal(t, 10, cfg.DefaultMinutes)
	require.Equal(t, 1, cfg.MinMinutes)
	require.Equal(t, 60, cfg.MaxMinutes)
	require.Equal(t, time.Second, cfg.TickInterval)
	require.Empty(t, cfg.MessagesDir)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"HOTSEAT_ADDR":            ":9000",
		"HOTSEAT_SERVER_URL":      "http://box:9000/",
		"HOTSEAT_DEFAULT_MINUTES": "5",
		"HOTSEAT_TICK_INTERVAL":   "250ms",
		"HOTSEAT_MESSAGES_DIR":    "/etc/hotseat",
		"HOTSEAT_START_FEN":       " 8/8/8/4k3/8/8/4p3/4K3 w - - 0 1 ",
	}))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "http://box:9000", cfg.ServerURL)
	require.Equal(t, 5, cfg.DefaultMinutes)
	require.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	require.Equal(t, "/etc/hotseat", cfg.MessagesDir)
	require.Equal(t, "8/8/8/4k3/8/8/4p3/4K3 w - - 0 1", cfg.StartFEN)
}

func TestFromEnvAggregatesProblems(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"HOTSEAT_MIN_MINUTES":     "0",
		"HOTSEAT_DEFAULT_MINUTES": "ten",
		"HOTSEAT_TICK_INTERVAL":   "-1s",
	}))
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	msg := err.Error()
	require.True(t, strings.Contains(msg, "HOTSEAT_DEFAULT_MINUTES"), msg)
	require.True(t, strings.Contains(msg, "HOTSEAT_MIN_MINUTES must be >= 1"), msg)
	require.True(t, strings.Contains(msg, "HOTSEAT_TICK_INTERVAL must be positive"), msg)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hotseat.env")
	require.NoError(t, os.WriteFile(path, []byte("HOTSEAT_DEFAULT_MINUTES=3\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("HOTSEAT_DEFAULT_MINUTES", "")
	os.Unsetenv("HOTSEAT_DEFAULT_MINUTES")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.DefaultMinutes)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	_, err := Load()
	require.NoError(t, err)
}
