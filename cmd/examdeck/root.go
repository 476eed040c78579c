package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/examdeck/internal/config"
	"github.com/Its-donkey/examdeck/logging"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examdeck",
		Short: "Exam filter UI tooling",
		Long: `examdeck hosts the exam filter page and its WebAssembly bundle during
development, proxying update-filters and get-exams to the exams API.
It can also render the page server-side for a given selection.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "path to a JSON or YAML config file")
	cmd.PersistentFlags().String("api", "", "base URL of the exams API (overrides config)")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides config)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if api, _ := cmd.Flags().GetString("api"); api != "" {
		cfg.API.BaseURL = api
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// newLogger logs to stderr, so render output on stdout stays clean, and also to
// a rotating file when log.dir is set.
func newLogger(component string, cfg config.LogConfig) (*logging.Logger, func() error, error) {
	writers := []io.Writer{os.Stderr}
	cleanup := func() error { return nil }
	if cfg.Dir != "" {
		fw, err := logging.NewFileWriter(cfg.Dir, component+".log", cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		cleanup = fw.Close
	}
	return logging.New(component, logging.ParseLevel(cfg.Level), writers...), cleanup, nil
}
