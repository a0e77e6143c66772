package main

import (
	"context"
	"fmt"
	"os"

	"rank-progression-system/database"
	"rank-progression-system/seeds"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default catalog and rank requirements",
	Long: `Insert competencies, artifacts, cards, missions, shop items and
requirements for ranks 1..10. Records that already exist are skipped,
so the command can be run on every deploy.

With --dir, YAML files are read from <dir>/data/*.yaml instead of the
catalog compiled into the binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return seed(cmd.Context(), dir)
	},
}

func init() {
	seedCmd.Flags().String("dir", "", "Directory containing data/*.yaml to seed from")
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, dir string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	db, err := database.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	var cat *seeds.Catalog
	if dir != "" {
		cat, err = seeds.LoadCatalog(os.DirFS(dir))
	} else {
		cat, err = seeds.DefaultCatalog()
	}
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	sum, err := seeds.NewSeeder(db, log).Run(ctx, cat)
	if err != nil {
		return err
	}
	for _, kind := range seeds.Kinds {
		fmt.Printf("%-14s inserted %d, skipped %d\n", kind, sum.Inserted[kind], sum.Skipped[kind])
	}
	return nil
}
