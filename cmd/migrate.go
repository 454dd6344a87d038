package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, err := bootstrap()
		if err != nil {
			return err
		}

		if err := config.Migrate(db); err != nil {
			return err
		}

		tables, err := store.New(db).Tables(context.Background())
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen, color.Bold)
		cyan := color.New(color.FgCyan)
		green.Println("✅ Database migration completed successfully")
		for _, table := range tables {
			cyan.Println("  •", table)
		}
		fmt.Println()
		return nil
	},
}
