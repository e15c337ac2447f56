package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/score"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, core.DefaultReference, cfg.Reference)
	assert.Equal(t, score.DefaultWeights, cfg.Scoring.Weights)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
reference: caffeine
runs_dir: /data/hek_stored_runs
class_lookup: classes.xlsx
scoring:
  weights:
    peak: 0.5
  thresholds:
    high: 0.75
rt:
  db_path: /data/rt.db
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "caffeine", cfg.Reference)
	assert.Equal(t, "/data/hek_stored_runs", cfg.RunsDir)
	assert.Equal(t, "classes.xlsx", cfg.ClassLookup)
	assert.Equal(t, 0.5, cfg.Scoring.Weights.Peak)
	assert.Equal(t, score.DefaultWeights.Outlier, cfg.Scoring.Weights.Outlier)
	assert.Equal(t, 0.75, cfg.Scoring.Thresholds.High)
	assert.Equal(t, 0.0, cfg.Scoring.Thresholds.Low)
	assert.Equal(t, "/data/rt.db", cfg.RT.DBPath)
	assert.Equal(t, "ISO-8859-1", cfg.RT.StandardsEncoding)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PEAKQC_RUNS_DIR", "/env/runs")
	t.Setenv("PEAKQC_RT_DB_PATH", "/env/rt.db")

	v := viper.New()
	v.SetEnvPrefix("PEAKQC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/env/runs", cfg.RunsDir)
	assert.Equal(t, "/env/rt.db", cfg.RT.DBPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty reference", mutate: func(c *Config) { c.Reference = " " }, wantErr: true},
		{name: "empty runs dir", mutate: func(c *Config) { c.RunsDir = "" }, wantErr: true},
		{name: "inverted thresholds", mutate: func(c *Config) { c.Scoring.Thresholds.Low = 1 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	cfg.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = "warn"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}
