package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/junimo-store/internal/seed"
	"github.com/magabrotheeeer/junimo-store/internal/services/catalog"
	"github.com/magabrotheeeer/junimo-store/internal/services/user"
)

var seedFile string

// seedCmd загружает начальные данные
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load categories, products and users from YAML",
	Long: `Load initial catalog data from a YAML file.

Products without a code get one generated from their category prefix.
Records that already exist are skipped, so the file can be applied repeatedly.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "config/catalog.yaml", "Seed file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := seed.Parse(f)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	db, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	// создание товаров и категорий не обращается к кешу и хранилищу изображений
	catalogService := catalog.New(db, db, nil, nil, log)
	userService := user.New(db, log)

	res, err := seed.New(catalogService, db, userService, log).Apply(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "categories: %d, products: %d, users: %d, skipped: %d\n",
		res.Categories, res.Products, res.Users, res.Skipped)
	return nil
}
