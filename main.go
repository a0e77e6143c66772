package main

import (
	"fmt"
	"os"

	"rank-progression-system/config"
	"rank-progression-system/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rank-progression",
	Short: "Rank progression and notification service",
	Long: `Backend for the onboarding game: users complete missions, collect
artifacts and cards, spend mana in the shop and climb the ranks from
Искатель to Адмирал галактики.

Configuration is read from the environment (and .env when present).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config and builds the logger shared by every command.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	mode := "development"
	if cfg.IsProduction() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
