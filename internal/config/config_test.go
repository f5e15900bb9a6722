package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp moves the test into an empty dir so no stray config.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "us_state_capitals.json", cfg.Input)
	assert.Equal(t, "us_state_capitals_verified.json", cfg.Output)
	assert.Equal(t, 400*time.Millisecond, cfg.Pause)
	assert.Empty(t, cfg.Cache)
	assert.Equal(t, "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress", cfg.Geocode.BaseURL)
	assert.Equal(t, "2020", cfg.Geocode.Benchmark)
	assert.Equal(t, 15, cfg.Geocode.TimeoutSecs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
input: capitals.json
pause: 1s
geocode:
  benchmark: Public_AR_Current
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "capitals.json", cfg.Input)
	assert.Equal(t, time.Second, cfg.Pause)
	assert.Equal(t, "Public_AR_Current", cfg.Geocode.Benchmark)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "us_state_capitals_verified.json", cfg.Output)
	assert.Equal(t, 15, cfg.Geocode.TimeoutSecs)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)

	t.Setenv("CAPVERIFY_OUTPUT", "verified.json")
	t.Setenv("CAPVERIFY_GEOCODE_TIMEOUT_SECS", "30")
	t.Setenv("CAPVERIFY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "verified.json", cfg.Output)
	assert.Equal(t, 30, cfg.Geocode.TimeoutSecs)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("input: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
