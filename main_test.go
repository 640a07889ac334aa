package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/billie-coop/settle/internal/config"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := loadSettings([]string{"--config-dir", dir})
	require.NoError(t, err)

	assert.Equal(t, 300*time.Millisecond, s.cfg.DebounceDelay())
	assert.Equal(t, 300*time.Millisecond, s.cfg.ThrottleDelay())
	assert.Equal(t, filepath.Join(dir, config.DirName), s.configDir)
	assert.Empty(t, s.watchDir)
	assert.FileExists(t, filepath.Join(dir, config.DirName, "config.json"))
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, config.DirName), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.DirName, "config.json"),
		[]byte(`{"debounce_ms": 900, "throttle_ms": 900, "log_level": "debug"}`),
		0o644,
	))

	s, err := loadSettings([]string{
		"--config-dir", dir,
		"--throttle", "50ms",
		"--log-format", "json",
		"--watch", "src",
	})
	require.NoError(t, err)

	assert.Equal(t, 900*time.Millisecond, s.cfg.DebounceDelay())
	assert.Equal(t, 50*time.Millisecond, s.cfg.ThrottleDelay())
	assert.Equal(t, "debug", s.cfg.LogLevel)
	assert.Equal(t, "json", s.cfg.LogFormat)
	assert.Equal(t, "src", s.watchDir)
}

func TestLoadSettings_Rejects(t *testing.T) {
	dir := t.TempDir()
	tests := map[string][]string{
		"negative debounce": {"--debounce", "-1s"},
		"bad level":         {"--log-level", "chatty"},
		"unknown flag":      {"--frobnicate"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadSettings(append([]string{"--config-dir", dir}, args...))
			assert.Error(t, err)
		})
	}
}

func TestLoadSettings_Help(t *testing.T) {
	_, err := loadSettings([]string{"--help"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}
