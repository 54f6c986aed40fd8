package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/analysis/trendline"
	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/models"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvMode, EnvWindow, EnvEpsilon, EnvTouchTolerance, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))
	return dir
}

func TestLoad_CreatesTemplateAndUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "fresh")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	assert.Equal(t, trendline.DefaultParams(), cfg.EngineParams())
	assert.Equal(t, analysis.ModePivot, cfg.Mode())
	assert.Equal(t, 5*time.Minute, cfg.Data.CacheTTL)
}

func TestLoad_TemplateParses(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, configTemplate)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, trendline.DefaultParams(), cfg.EngineParams())
	assert.Equal(t, 5000, cfg.Data.MaxCandles)
}

func TestLoad_DefaultTouchToleranceIsExact(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1e-5, cfg.Engine.TouchTolerance)

	// A low exactly 1e-5 above a flat support line is a touch under both parameter sets.
	candles := make([]models.Candle, 12)
	for i := range candles {
		low := 1.0
		switch i {
		case 0, 5:
			low = 0
		case 9:
			low = 1e-5
		}
		candles[i] = models.Candle{Time: int64(i) * 60_000, Open: 2, High: 2, Low: low, Close: 2}
	}
	a := models.PivotPoint{Index: 0, Price: 0, Kind: models.PivotLow}
	b := models.PivotPoint{Index: 5, Price: 0, Time: 5 * 60_000, Kind: models.PivotLow}

	fromConfig, ok := trendline.Evaluate(candles, a, b, models.LineSupport, cfg.EngineParams())
	require.True(t, ok)
	fromDefaults, ok := trendline.Evaluate(candles, a, b, models.LineSupport, trendline.DefaultParams())
	require.True(t, ok)
	assert.Equal(t, 3, fromDefaults.Touches)
	assert.Equal(t, fromDefaults.Touches, fromConfig.Touches)
}

func TestLoad_EnvEpsilonDerivesTouchTolerance(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEpsilon, "3e-7")

	cfg, err := Load(writeConfig(t, configTemplate))
	require.NoError(t, err)
	assert.Equal(t, 3e-6, cfg.Engine.TouchTolerance)
}

func TestLoad_FileValues(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
[engine]
mode = "regression"
window = 3
epsilon = 1e-4

[data]
cache_ttl = "30s"

[batch]
workers = 4
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, analysis.ModeRegression, cfg.Mode())
	assert.Equal(t, 3, cfg.Engine.Window)
	assert.Equal(t, 1e-4, cfg.Engine.Epsilon)
	assert.Equal(t, 1e-3, cfg.Engine.TouchTolerance, "touch tolerance follows epsilon")
	assert.Equal(t, 30*time.Second, cfg.Data.CacheTTL)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, configTemplate)
	t.Setenv(EnvWindow, "7")
	t.Setenv(EnvTouchTolerance, "0.01")
	t.Setenv(EnvMode, "regression")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.Window)
	assert.Equal(t, 0.01, cfg.Engine.TouchTolerance)
	assert.Equal(t, analysis.ModeRegression, cfg.Mode())
}

func TestLoad_FailsFast(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"negative window", "[engine]\nwindow = -1\n", nil},
		{"zero epsilon", "[engine]\nepsilon = 0.0\n", nil},
		{"negative touch tolerance", "[engine]\ntouch_tolerance = -1e-5\n", nil},
		{"unknown mode", "[engine]\nmode = \"both\"\n", nil},
		{"bad log level", "[logging]\nlevel = \"loud\"\n", nil},
		{"non-numeric env epsilon", "", map[string]string{EnvEpsilon: "tiny"}},
		{"non-integer env window", "", map[string]string{EnvWindow: "5.5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			dir := writeConfig(t, tc.content)

			cfg, err := Load(dir)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfigInvalid), "%v", err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, configTemplate)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRENDLINE_WINDOW=9\n"), 0644))
	// godotenv does not override variables that are already set, even when empty.
	require.NoError(t, os.Unsetenv(EnvWindow))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Engine.Window)
}
