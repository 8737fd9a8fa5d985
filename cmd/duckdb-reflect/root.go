package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leonardovida/duckdb-reflect/internal/config"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

var (
	flagConfig    string
	flagDatabase  string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:           "duckdb-reflect",
	Short:         "Inspect DuckDB catalogs",
	Long:          "duckdb-reflect reflects schemas, tables, columns, and constraints\nfrom DuckDB and MotherDuck databases.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; MOTHERDUCK_TOKEN commonly lives there.
		godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "database path, :memory:, or md:<name>")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (json, console)")
}

// loadConfig resolves the effective config: defaults, then the config file,
// then command-line flags.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagDatabase != "" {
		cfg.Database.Path = flagDatabase
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger from config.
func newLogger(cfg *config.Config) *logger.Logger {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.SetGlobal(log)
	return log
}
