package commands

import (
	"restaurant_site/internal/config"
	"restaurant_site/internal/migrations"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and seed default data",
	Long: `Bring the schema in line with the models and create the default
restaurant profile shown on the home page. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		return migrations.RunMigrations(cmd.Context(), db, cfg.Restaurant)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
