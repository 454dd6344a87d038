package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/seed"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load dietary restrictions, customers and reservations from a YAML fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := seed.Load(args[0])
		if err != nil {
			return err
		}

		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		result, err := seed.Apply(context.Background(), store.New(db), fixture)
		if err != nil {
			return err
		}

		log.WithField("file", args[0]).Info("Seed applied")

		green := color.New(color.FgGreen, color.Bold)
		yellow := color.New(color.FgYellow)
		green.Printf("✅ Seeded %d dietary restrictions, %d customers, %d reservations\n",
			result.Restrictions, result.Customers, result.Reservations)
		if result.SkippedCustomers > 0 {
			yellow.Printf("⚠️  Skipped %d customers already on file\n", result.SkippedCustomers)
		}
		return nil
	},
}
