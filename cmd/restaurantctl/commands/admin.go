package commands

import (
	"restaurant_site/internal/config"
	"restaurant_site/internal/migrations"

	"github.com/spf13/cobra"
)

var (
	// create-admin flags
	adminUsername string
	adminEmail    string
	adminPassword string
)

// createAdminCmd represents the create-admin command
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account or reset its password",
	Long: `Create an admin account. When the username already exists the account is
promoted to admin, reactivated and given the new password.

Examples:
  restaurantctl create-admin
  restaurantctl create-admin --username owner --email owner@example.com --password 's3cret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		return migrations.CreateAdmin(cmd.Context(), db, adminUsername, adminEmail, adminPassword)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "admin@restaurant.com", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "admin123", "Admin password")
	rootCmd.AddCommand(createAdminCmd)
}
