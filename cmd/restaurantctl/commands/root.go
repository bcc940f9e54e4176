package commands

import (
	"context"
	"fmt"
	"os"

	"restaurant_site/internal/config"
	"restaurant_site/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbDriver string
	dbURL    string
	verbose  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restaurantctl",
	Short: "Management commands for the restaurant site",
	Long: `restaurantctl runs maintenance tasks against the restaurant site database.

Database settings default to the same environment variables the server reads
(DATABASE_DRIVER, DATABASE_URL) and can be overridden with flags.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: postgres or sqlite (default $DATABASE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (default $DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")
}

// openDB connects with the flag values, falling back to the environment.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	driver := cfg.DatabaseDriver
	if dbDriver != "" {
		driver = dbDriver
	}
	url := cfg.DatabaseURL
	if dbURL != "" {
		url = dbURL
	}
	return database.Initialize(driver, url, verbose || cfg.DatabaseDebug)
}
