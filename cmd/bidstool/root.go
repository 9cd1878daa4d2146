package main

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BV-RADS/BIDS-creator-tool/internal/config"
	"github.com/BV-RADS/BIDS-creator-tool/internal/logging"
)

// appContext carries the persistent flag values shared by every
// subcommand.
type appContext struct {
	configPath string
	logLevel   string
	logFormat  string
}

// setup loads the configuration and builds the run logger. Each run
// gets a unique ID attached to every log line.
func (a *appContext) setup() (*config.Config, *slog.Logger, error) {
	path := a.configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultFileName
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	format := cfg.Log.Format
	if a.logFormat != "" {
		format = a.logFormat
	}

	logger, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger.With("run_id", uuid.NewString()[:8]), nil
}

func newRootCommand() *cobra.Command {
	app := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "bidstool",
		Short:         "Sort, anonymize and archive DICOM studies",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Configuration file path (default "+config.DefaultFileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&app.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newSortCommand(app))
	rootCmd.AddCommand(newFilterCommand(app))
	rootCmd.AddCommand(newArchiveCommand(app))
	rootCmd.AddCommand(newProtocolCommand(app))
	rootCmd.AddCommand(newBidsCommand(app))

	return rootCmd
}
