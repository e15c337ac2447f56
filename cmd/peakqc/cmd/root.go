// Package cmd provides CLI command implementations
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/peakqc/pkg/config"
)

var (
	cfgFile string
	cfgErr  error
	cfg     config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "peakqc",
	Short: "peakqc - Internal standard peak-area QC",
	Long: `peakqc compares a new run of internal standards against the stored
history of earlier runs and reports a drift score per compound.

Each compound is scored on its peak area relative to history, the change in
its replicate spread, its variability and its outlier share, for both raw
and reference-normalized areas. Scores are tagged high, neutral or low and
summarized by compound class and ion mode.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		var err error
		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "file", used)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./peakqc.yaml or ~/.config/peakqc/peakqc.yaml)")
	flags.String("runs-dir", d.RunsDir, "Directory of stored runs")
	flags.String("reference", d.Reference, "Internal standard used for normalization")
	flags.String("class-lookup", "", "Compound class/ion lookup (.xlsx or .csv)")
	flags.String("db", d.RT.DBPath, "Retention-time database")
	flags.String("log-level", d.LogLevel, "Log level: debug, info, warn, error")

	viper.BindPFlag("runs_dir", flags.Lookup("runs-dir"))
	viper.BindPFlag("reference", flags.Lookup("reference"))
	viper.BindPFlag("class_lookup", flags.Lookup("class-lookup"))
	viper.BindPFlag("rt.db_path", flags.Lookup("db"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("peakqc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "peakqc"))
		}
	}

	viper.SetEnvPrefix("PEAKQC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cfgErr = fmt.Errorf("reading config: %w", err)
		}
	}
}
