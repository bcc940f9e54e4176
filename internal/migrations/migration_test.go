package migrations

import (
	"context"
	"testing"

	"restaurant_site/internal/config"
	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/services"
	"restaurant_site/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsSeedsOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	defaults := config.RestaurantSettings{Name: "Gourmet Delight", Phone: "+1 (555) 123-4567"}

	require.NoError(t, RunMigrations(ctx, db, defaults))
	require.NoError(t, RunMigrations(ctx, db, defaults))

	var count int64
	require.NoError(t, db.Model(&models.RestaurantProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var profile models.RestaurantProfile
	require.NoError(t, db.First(&profile, models.SingletonID).Error)
	assert.Equal(t, defaults.Phone, profile.Phone)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	require.NoError(t, CreateAdmin(ctx, db, "admin", "admin@restaurant.com", "admin123"))
	require.NoError(t, CreateAdmin(ctx, db, "admin", "admin@restaurant.com", "changed-secret"))

	users := services.NewUserService(repository.New(db))
	admin, err := users.Authenticate(ctx, "admin", "changed-secret")
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleAdmin), admin.Role)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
