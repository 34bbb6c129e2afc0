// Command storectl служебные операции магазина: миграции, загрузка начальных данных
// и создание сотрудников.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/junimo-store/internal/config"
	"github.com/magabrotheeeer/junimo-store/internal/lib/logger"
	"github.com/magabrotheeeer/junimo-store/internal/storage/repository"
)

var (
	configPath string
	timeout    time.Duration

	cfg *config.Config
	log *slog.Logger
)

// rootCmd базовая команда
var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Junimo Store maintenance tool",
	Long: `storectl runs maintenance tasks against the Junimo Store database.

Available subcommands:
  migrate      - apply pending schema migrations
  seed         - load categories, products and users from a YAML file
  create-user  - create an account with any role`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("CONFIG_PATH")
		}
		if configPath == "" {
			return fmt.Errorf("config path is not set: use --config or CONFIG_PATH")
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		log = logger.New(cfg.Env, os.Stderr)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: $CONFIG_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createUserCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStorage открывает БД и проверяет её доступность.
func openStorage(ctx context.Context) (*repository.Storage, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := db.CheckDatabaseReady(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
