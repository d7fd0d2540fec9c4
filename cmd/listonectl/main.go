package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/app"
	"vvf-listone/internal/storage"
	applogger "vvf-listone/pkg/logger"
)

var (
	configFlag string
	rootCmd    = &cobra.Command{
		Use:           "listonectl",
		Short:         "Maintenance tool for the Listone backend store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config.yaml (default ./config/config.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env everything a command needs, released by close
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *app.Backend
	adapter *storage.Adapter
}

func openEnv() (*env, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&config.LogConfig{Level: "warn", Format: "console"})
	if err != nil {
		return nil, err
	}
	backend, err := app.OpenBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		adapter: storage.NewAdapter(backend.Store, cfg.Storage.Namespace, logger),
	}, nil
}

func (e *env) close() {
	e.backend.Close()
	_ = e.logger.Sync()
}
