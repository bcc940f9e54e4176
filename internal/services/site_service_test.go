package services

import (
	"context"
	"strings"
	"testing"

	"restaurant_site/internal/config"
	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = config.RestaurantSettings{
	Name:  "Gourmet Delight",
	Phone: "+1 (555) 123-4567",
}

func TestHomeProfileGetOrCreate(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewSiteService(repos, testSettings, &memStore{}, 0)

	first, err := svc.FirstProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, first)

	p, err := svc.HomeProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SingletonID, p.ID)
	assert.Equal(t, "Tasty Bites", p.Name)
	assert.Equal(t, "Welcome to our restaurant!", p.Description)
	assert.Equal(t, testSettings.Phone, p.Phone)

	p.Name = "Renamed"
	require.NoError(t, svc.UpdateProfile(ctx, p))

	again, err := svc.HomeProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Name)

	_, total, err := svc.ListProfiles(ctx, repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// the seeded id must not block the next admin-created profile
	branch := &models.RestaurantProfile{Name: "Second Branch"}
	require.NoError(t, svc.CreateProfile(ctx, branch))
	assert.NotEqual(t, models.SingletonID, branch.ID)
}

func TestSaveConfigurationKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	repos, db := newRepos(t)
	svc := NewSiteService(repos, testSettings, &memStore{}, 0)

	canAdd, err := svc.CanAddConfiguration(ctx)
	require.NoError(t, err)
	assert.True(t, canAdd)

	require.NoError(t, svc.SaveConfiguration(ctx, &models.RestaurantConfiguration{Name: "First", Tagline: "one"}))
	require.NoError(t, svc.SaveConfiguration(ctx, &models.RestaurantConfiguration{Name: "Second", Tagline: "two"}))

	var count int64
	require.NoError(t, db.Model(&models.RestaurantConfiguration{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	cfg, err := svc.Configuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second", cfg.Name)
	assert.Equal(t, "two", cfg.Tagline)

	canAdd, err = svc.CanAddConfiguration(ctx)
	require.NoError(t, err)
	assert.False(t, canAdd)
	err = svc.AddConfiguration(ctx, &models.RestaurantConfiguration{Name: "Third"})
	assert.ErrorIs(t, err, ErrSingletonExists)
}

func TestLocationSingleton(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewSiteService(repos, testSettings, &memStore{}, 0)

	loc, err := svc.Location(ctx)
	require.NoError(t, err)
	assert.Nil(t, loc)

	err = svc.AddLocation(ctx, &models.RestaurantLocation{Address: "", Email: "bad"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "address")
	assert.Contains(t, verr.Fields, "email")

	require.NoError(t, svc.AddLocation(ctx, &models.RestaurantLocation{Address: "1 Main St"}))
	assert.ErrorIs(t, svc.AddLocation(ctx, &models.RestaurantLocation{Address: "2 Main St"}), ErrSingletonExists)

	require.NoError(t, svc.SaveLocation(ctx, &models.RestaurantLocation{Address: "3 Main St", Hours: "9-5"}))
	loc, err = svc.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3 Main St", loc.Address)
}

func TestSetLogo(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	media := &memStore{}
	svc := NewSiteService(repos, testSettings, media, 0)

	p := &models.RestaurantProfile{Name: "Blue Door"}
	require.NoError(t, svc.CreateProfile(ctx, p))

	updated, err := svc.SetLogo(ctx, p.ID, "logo.png", 3, strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Logo, "restaurant/blue_door_logo_"))
	assert.Contains(t, media.files, updated.Logo)

	require.NoError(t, svc.DeleteProfile(ctx, p.ID))
	_, err = svc.GetProfile(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
