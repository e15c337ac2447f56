// Package config holds peakqc settings loaded through viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/peakqc/pkg/classify"
	"github.com/ChrisMcGann/peakqc/pkg/core"
	"github.com/ChrisMcGann/peakqc/pkg/score"
)

// ScoringConfig holds the drift score weights and tag thresholds.
type ScoringConfig struct {
	Weights    score.Weights       `json:"weights" yaml:"weights" mapstructure:"weights"`
	Thresholds classify.Thresholds `json:"thresholds" yaml:"thresholds" mapstructure:"thresholds"`
}

// RTConfig holds settings for the retention-time database tools.
type RTConfig struct {
	// DBPath is the SQLite database holding expected retention times.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// StandardsEncoding is the charset of standards CSV exports.
	StandardsEncoding string `json:"standards_encoding" yaml:"standards_encoding" mapstructure:"standards_encoding"`
}

// Config is the full peakqc configuration.
type Config struct {
	// Reference is the internal standard used as normalization denominator.
	Reference string `json:"reference" yaml:"reference" mapstructure:"reference"`

	// RunsDir is the directory of stored runs.
	RunsDir string `json:"runs_dir" yaml:"runs_dir" mapstructure:"runs_dir"`

	// ClassLookup is the compound class/ion table (.xlsx or .csv). Optional.
	ClassLookup string `json:"class_lookup" yaml:"class_lookup" mapstructure:"class_lookup"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`

	Scoring ScoringConfig `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	RT      RTConfig      `json:"rt" yaml:"rt" mapstructure:"rt"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Reference: core.DefaultReference,
		RunsDir:   "hek_stored_runs",
		LogLevel:  "info",
		Scoring: ScoringConfig{
			Weights:    score.DefaultWeights,
			Thresholds: classify.DefaultThresholds,
		},
		RT: RTConfig{
			DBPath:            "peakqc.db",
			StandardsEncoding: "ISO-8859-1",
		},
	}
}

// SetDefaults registers Default values on v so that env vars and config
// files only need to override what differs.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("reference", d.Reference)
	v.SetDefault("runs_dir", d.RunsDir)
	v.SetDefault("class_lookup", d.ClassLookup)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("scoring.weights.peak", d.Scoring.Weights.Peak)
	v.SetDefault("scoring.weights.iqr", d.Scoring.Weights.IQR)
	v.SetDefault("scoring.weights.variability", d.Scoring.Weights.Variability)
	v.SetDefault("scoring.weights.outlier", d.Scoring.Weights.Outlier)
	v.SetDefault("scoring.thresholds.high", d.Scoring.Thresholds.High)
	v.SetDefault("scoring.thresholds.low", d.Scoring.Thresholds.Low)
	v.SetDefault("rt.db_path", d.RT.DBPath)
	v.SetDefault("rt.standards_encoding", d.RT.StandardsEncoding)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Reference) == "" {
		errs = append(errs, "reference compound is required")
	}
	if strings.TrimSpace(c.RunsDir) == "" {
		errs = append(errs, "runs_dir is required")
	}
	if c.Scoring.Thresholds.Low > c.Scoring.Thresholds.High {
		errs = append(errs, "scoring.thresholds.low must not exceed scoring.thresholds.high")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log_level '%s'", c.LogLevel))
	}
	if len(errs) > 0 {
		return &core.ValidationError{Field: "Config", Message: strings.Join(errs, "; ")}
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
