package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hugelabz/internal/config"
	pkgconfig "github.com/Skotchmaster/hugelabz/pkg/config"
	"github.com/Skotchmaster/hugelabz/pkg/db"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:          "hugelabz",
	Short:        "HugeLabz storefront backend",
	Long:         "Catalog, accounts, serial registry and product authenticity verification for the HugeLabz storefront",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads config, installs the logger and opens the database.
func bootstrap(ctx context.Context) (pkgconfig.Config, *slog.Logger, *gorm.DB, error) {
	cfg := config.Load(envFile)
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := config.RequireDatabase(cfg); err != nil {
		return cfg, logger, nil, err
	}
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return cfg, logger, nil, err
	}
	return cfg, logger, gdb, nil
}
