package database

import (
	"fmt"
	"log"
	"strings"

	"restaurant_site/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Initialize opens the database for driver ("postgres" or "sqlite") and
// migrates every model.
func Initialize(driver, databaseURL string, debug bool) (*gorm.DB, error) {
	// Configure GORM
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	config := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	dialector, err := open(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	// Connect to database
	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// a single connection keeps in-memory databases and their pragmas consistent
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto migrate all models
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

func open(driver, databaseURL string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(databaseURL), nil
	case DriverSQLite:
		return sqlite.Open(withForeignKeys(databaseURL)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// withForeignKeys turns on sqlite's foreign key enforcement for every pooled
// connection; without it ON DELETE CASCADE / RESTRICT are ignored.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.RestaurantProfile{},
		&models.RestaurantConfiguration{},
		&models.RestaurantLocation{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Feedback{},
		&models.ContactSubmission{},
	)
}
