package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hardening.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFull(t *testing.T) {
	path := writeTempConfig(t, `
level: high
enforce: true
timeout_seconds: 90
max_workers: 3
policies: [M-001, M-004]
overrides:
  enable: [M-009]
  disable: [M-007]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Level)
	require.Equal(t, LevelHigh, *cfg.Level)
	require.NotNil(t, cfg.Enforce)
	require.True(t, *cfg.Enforce)
	require.Equal(t, 90, *cfg.TimeoutSeconds)
	require.Equal(t, 3, *cfg.MaxWorkers)
	require.Equal(t, []string{"M-001", "M-004"}, cfg.Policies)
	require.Equal(t, []string{"M-009"}, cfg.Overrides.Enable)
	require.Equal(t, []string{"M-007"}, cfg.Overrides.Disable)
}

func TestLoadConfigEmptyFieldsStayNil(t *testing.T) {
	path := writeTempConfig(t, "overrides:\n  disable: [M-002]\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Nil(t, cfg.Level)
	require.Nil(t, cfg.Enforce)
	require.Nil(t, cfg.TimeoutSeconds)
	require.Equal(t, []string{"M-002"}, cfg.Overrides.Disable)
}

func TestLoadConfigRejectsUnknownLevel(t *testing.T) {
	path := writeTempConfig(t, "level: extreme\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "extreme")
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, "levle: high\n") // typo harus ketahuan
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	path := writeTempConfig(t, "timeout_seconds: -5\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
