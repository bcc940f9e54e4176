package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"restaurant_site/internal/config"
	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/upload"

	"gorm.io/gorm"
)

// SiteService manages the restaurant profile and the singleton
// configuration and location rows.
type SiteService interface {
	// HomeProfile returns the profile with id 1, creating it with the
	// configured defaults when missing.
	HomeProfile(ctx context.Context) (*models.RestaurantProfile, error)
	// FirstProfile returns the lowest-id profile, or nil when none exists.
	FirstProfile(ctx context.Context) (*models.RestaurantProfile, error)
	GetProfile(ctx context.Context, id uint) (*models.RestaurantProfile, error)
	ListProfiles(ctx context.Context, q repository.ListQuery) ([]models.RestaurantProfile, int64, error)
	CreateProfile(ctx context.Context, p *models.RestaurantProfile) error
	UpdateProfile(ctx context.Context, p *models.RestaurantProfile) error
	DeleteProfile(ctx context.Context, id uint) error
	SetLogo(ctx context.Context, id uint, filename string, size int64, file io.Reader) (*models.RestaurantProfile, error)

	// Configuration and Location return nil, nil when no row exists.
	Configuration(ctx context.Context) (*models.RestaurantConfiguration, error)
	// SaveConfiguration inserts or overwrites the single configuration row.
	SaveConfiguration(ctx context.Context, c *models.RestaurantConfiguration) error
	// AddConfiguration is SaveConfiguration that refuses when a row exists.
	AddConfiguration(ctx context.Context, c *models.RestaurantConfiguration) error
	CanAddConfiguration(ctx context.Context) (bool, error)

	Location(ctx context.Context) (*models.RestaurantLocation, error)
	SaveLocation(ctx context.Context, l *models.RestaurantLocation) error
	AddLocation(ctx context.Context, l *models.RestaurantLocation) error
	CanAddLocation(ctx context.Context) (bool, error)
}

type siteService struct {
	repos          *repository.Repositories
	defaults       config.RestaurantSettings
	media          upload.Store
	maxUploadBytes int64
	now            func() time.Time
}

func NewSiteService(repos *repository.Repositories, defaults config.RestaurantSettings, media upload.Store, maxUploadBytes int64) SiteService {
	return &siteService{
		repos:          repos,
		defaults:       defaults,
		media:          media,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (s *siteService) HomeProfile(ctx context.Context) (*models.RestaurantProfile, error) {
	var profile *models.RestaurantProfile
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		profile, err = tx.Profiles.GetByID(ctx, models.SingletonID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile = &models.RestaurantProfile{
			ID:          models.SingletonID,
			Name:        "Tasty Bites",
			Description: "Welcome to our restaurant!",
			Phone:       s.defaults.Phone,
		}
		return tx.Profiles.CreateWithID(ctx, profile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant profile: %w", err)
	}
	return profile, nil
}

func (s *siteService) FirstProfile(ctx context.Context) (*models.RestaurantProfile, error) {
	profile, err := s.repos.Profiles.First(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant profile: %w", err)
	}
	return profile, nil
}

func (s *siteService) GetProfile(ctx context.Context, id uint) (*models.RestaurantProfile, error) {
	profile, err := s.repos.Profiles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant profile")
	}
	return profile, nil
}

func (s *siteService) ListProfiles(ctx context.Context, q repository.ListQuery) ([]models.RestaurantProfile, int64, error) {
	return s.repos.Profiles.List(ctx, q)
}

func (s *siteService) CreateProfile(ctx context.Context, p *models.RestaurantProfile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	if err := s.repos.Profiles.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create restaurant profile: %w", err)
	}
	return nil
}

func (s *siteService) UpdateProfile(ctx context.Context, p *models.RestaurantProfile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	existing, err := s.repos.Profiles.GetByID(ctx, p.ID)
	if err != nil {
		return notFound(err, "restaurant profile")
	}
	p.CreatedAt = existing.CreatedAt
	if err := s.repos.Profiles.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update restaurant profile: %w", err)
	}
	return nil
}

func (s *siteService) DeleteProfile(ctx context.Context, id uint) error {
	if err := s.repos.Profiles.Delete(ctx, id); err != nil {
		return notFound(err, "restaurant profile")
	}
	return nil
}

func (s *siteService) SetLogo(ctx context.Context, id uint, filename string, size int64, file io.Reader) (*models.RestaurantProfile, error) {
	if err := upload.Validate(filename, size, s.maxUploadBytes); err != nil {
		return nil, invalid("logo", err.Error())
	}
	profile, err := s.repos.Profiles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "restaurant profile")
	}

	rel := upload.Path(upload.CategoryRestaurant, profile.Name+" logo", upload.Ext(filename), s.now())
	ref, err := s.media.Save(ctx, rel, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store logo: %w", err)
	}
	profile.Logo = ref
	if err := s.repos.Profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update restaurant profile: %w", err)
	}
	return profile, nil
}

func (s *siteService) Configuration(ctx context.Context) (*models.RestaurantConfiguration, error) {
	c, err := s.repos.Configurations.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *siteService) SaveConfiguration(ctx context.Context, c *models.RestaurantConfiguration) error {
	v := &ValidationError{}
	requireText(v, "name", c.Name, 100)
	checkLength(v, "tagline", c.Tagline, 200)
	if err := v.errOrNil(); err != nil {
		return err
	}

	c.ID = models.SingletonID
	if err := s.repos.Configurations.Upsert(ctx, c); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	stored, err := s.repos.Configurations.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	*c = *stored
	return nil
}

func (s *siteService) AddConfiguration(ctx context.Context, c *models.RestaurantConfiguration) error {
	ok, err := s.CanAddConfiguration(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("configuration: %w", ErrSingletonExists)
	}
	return s.SaveConfiguration(ctx, c)
}

func (s *siteService) CanAddConfiguration(ctx context.Context) (bool, error) {
	exists, err := s.repos.Configurations.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check configuration: %w", err)
	}
	return !exists, nil
}

func (s *siteService) Location(ctx context.Context) (*models.RestaurantLocation, error) {
	l, err := s.repos.Locations.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return l, err
}

func (s *siteService) SaveLocation(ctx context.Context, l *models.RestaurantLocation) error {
	v := &ValidationError{}
	requireText(v, "address", l.Address, 0)
	checkLength(v, "phone", l.Phone, 20)
	if l.Email != "" && !validEmail(l.Email) {
		v.add("email", "Enter a valid email address.")
	}
	if err := v.errOrNil(); err != nil {
		return err
	}

	l.ID = models.SingletonID
	if err := s.repos.Locations.Upsert(ctx, l); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	stored, err := s.repos.Locations.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload location: %w", err)
	}
	*l = *stored
	return nil
}

func (s *siteService) AddLocation(ctx context.Context, l *models.RestaurantLocation) error {
	ok, err := s.CanAddLocation(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("location: %w", ErrSingletonExists)
	}
	return s.SaveLocation(ctx, l)
}

func (s *siteService) CanAddLocation(ctx context.Context) (bool, error) {
	exists, err := s.repos.Locations.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check location: %w", err)
	}
	return !exists, nil
}

func validateProfile(p *models.RestaurantProfile) error {
	v := &ValidationError{}
	requireText(v, "name", p.Name, 100)
	checkLength(v, "phone", p.Phone, 20)
	checkLength(v, "weekday_hours", p.WeekdayHours, 100)
	checkLength(v, "weekend_hours", p.WeekendHours, 100)
	return v.errOrNil()
}
