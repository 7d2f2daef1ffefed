package main

import (
	"fmt"

	"wellness_tracker/internal/repository"
	"wellness_tracker/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RootOptions struct {
	ConfigPath string
	Config     *Config
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "wellness",
		Short:         "Streaks, achievements and unlock notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.Config = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default ./config.yaml)")

	serve := NewServeCommand(opts)
	cmd.RunE = serve.RunE
	cmd.AddCommand(serve, NewMigrateCommand(opts), NewBackfillCommand(opts))

	return cmd
}

func openRepository(cfg *Config) (*repository.Repository, error) {
	repo, err := repository.New(cfg.Database)
	if err != nil {
		logger.Logger().Error("Failed to initialize repository", zap.Error(err))
		return nil, err
	}
	return repo, nil
}
