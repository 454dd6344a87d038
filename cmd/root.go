package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "restaurant-assistant",
	Short: "Restaurant assistant API server and maintenance commands",
	Long: `restaurant-assistant serves the reservation and SMS API.

Examples:

  restaurant-assistant serve
  restaurant-assistant migrate
  restaurant-assistant seed seed.example.yaml
`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := config.NewLogger(cfg)

	db, err := config.OpenDatabase(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}
