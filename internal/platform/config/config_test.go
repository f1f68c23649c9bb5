package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresDataDir(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "confetti.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "user.json"), cfg.UserFile)
	assert.Equal(t, time.Minute, cfg.ClockInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Conference)
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "conference = \"kotlinconf2024\"\nclock_interval = \"30s\"\nlog_level = \"debug\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "kotlinconf2024", cfg.Conference)
	assert.Equal(t, 30*time.Second, cfg.ClockInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("conference = \"a\"\n"), 0o644))
	t.Setenv("CONFETTI_CONFERENCE", "b")
	t.Setenv("CONFETTI_CLOCK_INTERVAL", "5s")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "b", cfg.Conference)
	assert.Equal(t, 5*time.Second, cfg.ClockInterval)
}

func TestLoadRejectsShortInterval(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFETTI_CLOCK_INTERVAL", "10ms")
	_, err := Load(dir)
	require.Error(t, err)
}

func TestWriteDefaultRoundTripsThroughLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(dir)
	require.NoError(t, err)
	cfg.Conference = "droidconlondon2023"
	cfg.ClockInterval = 2 * time.Minute

	path, err := WriteDefault(cfg)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "droidconlondon2023", loaded.Conference)
	assert.Equal(t, 2*time.Minute, loaded.ClockInterval)

	_, err = WriteDefault(cfg)
	require.Error(t, err)
}

func TestDefaultDataDirHonoursEnv(t *testing.T) {
	t.Setenv("CONFETTI_DATA_DIR", "/tmp/confetti-test")
	dir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/confetti-test", dir)
}
