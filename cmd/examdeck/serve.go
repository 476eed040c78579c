package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/examdeck/internal/ui/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the exam deck page and proxy the filter endpoints",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("listen", "", "address to listen on (overrides config)")
	cmd.Flags().String("assets", "", "directory holding index.html, main.wasm and wasm_exec.js (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}
	if assets, _ := cmd.Flags().GetString("assets"); assets != "" {
		cfg.Server.Assets = assets
	}

	logger, closeLog, err := newLogger("examdeck-serve", cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := server.New(server.Options{
		Listen:      cfg.Server.Listen,
		AssetsDir:   cfg.Server.Assets,
		APIBase:     cfg.API.BaseURL,
		FiltersPath: cfg.API.FiltersPath,
		ExamsPath:   cfg.API.ExamsPath,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
