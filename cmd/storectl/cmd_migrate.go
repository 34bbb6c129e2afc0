package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/junimo-store/internal/migrations"
)

// migrateCmd применяет миграции схемы
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Apply every pending migration embedded in the binary.

Running it on an up-to-date database is a no-op.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	db, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(db.DB); err != nil {
		return err
	}
	version, dirty, err := migrations.Version(db.DB)
	if err != nil {
		return err
	}
	log.Info("migrations applied", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
