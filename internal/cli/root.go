// Package cli wires the cutroom commands: the web server and the small
// maintenance tools that run against the same database.
package cli

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/cutroom/internal/config"
	"github.com/Zachkp/cutroom/internal/logging"
	"github.com/Zachkp/cutroom/internal/store"
)

var (
	buildVersion string
	configPath   string
)

var rootCmd = &cobra.Command{
	Use:   "cutroom",
	Short: "Portfolio site for a cinematic video editor",
	Long: `cutroom serves a video editor's portfolio: the project gallery, the
animated intro, the contact form and a small admin console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cutroom.toml", "Path to the TOML config file (missing is fine)")
}

// Execute runs the root command with the build version injected via
// ldflags.
func Execute(version string) error {
	buildVersion = version
	rootCmd.Version = version
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	gin.SetMode(cfg.Mode)
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Mode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger.With(zap.String("version", buildVersion)), nil
}

func openStore(ctx context.Context, cfg config.Config) (*store.DB, error) {
	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.DatabasePath, err)
	}
	return db, nil
}
