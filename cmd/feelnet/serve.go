package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/feelnet/internal/config"
	"github.com/tsawler/feelnet/internal/server"
	"github.com/tsawler/feelnet/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Run the JSON API server. Analysis results are persisted to a
local SQLite database and exposed through the history and dashboard
endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadFileConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := buildLogger(cmd, cfg)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cfg, logger)
		if err != nil {
			return err
		}

		dbPath := config.DefaultDBPath()
		if cfg.Store.Path != nil {
			dbPath = *cfg.Store.Path
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()

		addr := serveAddr
		if !cmd.Flags().Changed("addr") && cfg.Server.Addr != nil {
			addr = *cfg.Server.Addr
		}
		opts := server.Options{
			Engine:  engine,
			Store:   db,
			Factory: buildFactory(cfg, logger),
			Logger:  logger,
		}
		if cfg.Server.MaxTextLength != nil {
			opts.MaxTextLength = *cfg.Server.MaxTextLength
		}

		fmt.Printf("feelnet %s serving on %s\n", version, addr)
		return server.New(opts).ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
