package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardovida/duckdb-reflect/internal/config"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
	"github.com/leonardovida/duckdb-reflect/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reflection API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		insp, closeDB, err := openInspector(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()

		// Only the log level is hot-reloadable; config file changes to
		// anything else require a restart.
		if flagConfig != "" {
			watcher, err := config.Watch(flagConfig, log, func(next *config.Config) {
				logger.SetGlobalLevel(next.Log.Level)
			})
			if err != nil {
				return err
			}
			defer watcher.Close()
		}

		addr := cfg.Server.Addr
		if flagAddr != "" {
			addr = flagAddr
		}

		srv := server.New(insp, log)
		return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
