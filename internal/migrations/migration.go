package migrations

import (
	"context"
	"fmt"
	"log"

	"restaurant_site/internal/config"
	"restaurant_site/internal/database"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/services"

	"gorm.io/gorm"
)

// RunMigrations creates or updates every table and then seeds default data.
func RunMigrations(ctx context.Context, db *gorm.DB, defaults config.RestaurantSettings) error {
	log.Println("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := SeedDefaults(ctx, repository.New(db), defaults); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// SeedDefaults makes sure the home page restaurant profile exists. It is safe
// to run on every start.
func SeedDefaults(ctx context.Context, repos *repository.Repositories, defaults config.RestaurantSettings) error {
	site := services.NewSiteService(repos, defaults, nil, 0)
	profile, err := site.HomeProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to create default data: %w", err)
	}
	log.Printf("Restaurant profile ready: id=%d name=%q", profile.ID, profile.Name)
	return nil
}

// CreateAdmin creates the admin account, or resets its password and role when
// it already exists.
func CreateAdmin(ctx context.Context, db *gorm.DB, username, email, password string) error {
	users := services.NewUserService(repository.New(db))
	created, err := users.EnsureAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	if created {
		log.Printf("Admin user created: username=%s email=%s", username, email)
	} else {
		log.Printf("Admin user %s already existed; password and role were reset", username)
	}
	return nil
}
