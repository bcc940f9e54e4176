package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Email       *string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time
}

type UserService interface {
	// Register creates a customer account and its profile in one transaction.
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, q repository.ListQuery) ([]models.User, int64, error)
	// SaveAccount creates (ID 0) or updates an account and makes sure it has
	// a profile. An empty password leaves an existing hash unchanged.
	SaveAccount(ctx context.Context, user *models.User, password string) error
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	// EnsureAdmin creates the admin account or resets its password and role.
	EnsureAdmin(ctx context.Context, username, email, password string) (created bool, err error)
}

type userService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) UserService {
	return &userService{repos: repos}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	v := &ValidationError{}
	validateAccountFields(v, in.Username, in.Email)
	validatePassword(v, in.Password)
	if in.Phone != "" && !models.PhonePattern.MatchString(in.Phone) {
		v.add("phone", phoneMessage)
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         string(models.RoleCustomer),
		IsActive:     true,
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkUnique(ctx, tx, user); err != nil {
			return err
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile := &models.UserProfile{UserID: user.ID, Phone: in.Phone}
		if err := tx.Users.CreateProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to create user profile: %w", err)
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repos.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, q repository.ListQuery) ([]models.User, int64, error) {
	return s.repos.Users.List(ctx, q)
}

func (s *userService) SaveAccount(ctx context.Context, user *models.User, password string) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.Role == "" {
		user.Role = string(models.RoleCustomer)
	}

	v := &ValidationError{}
	validateAccountFields(v, user.Username, user.Email)
	if user.Role != string(models.RoleAdmin) && user.Role != string(models.RoleCustomer) {
		v.add("role", fmt.Sprintf("%q is not a valid choice.", user.Role))
	}
	if user.ID == 0 || password != "" {
		validatePassword(v, password)
	}
	if err := v.errOrNil(); err != nil {
		return err
	}

	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := checkUnique(ctx, tx, user); err != nil {
			return err
		}

		if password != "" {
			hash, err := hashPassword(password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}

		if user.ID == 0 {
			if err := tx.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		} else {
			existing, err := tx.Users.GetByID(ctx, user.ID)
			if err != nil {
				return notFound(err, "user")
			}
			if password == "" {
				user.PasswordHash = existing.PasswordHash
			}
			user.CreatedAt = existing.CreatedAt
			if err := tx.Users.Update(ctx, user); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		profile, err := ensureProfile(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	v := &ValidationError{}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		in.Phone = &phone
		if phone != "" && !models.PhonePattern.MatchString(phone) {
			v.add("phone", phoneMessage)
		}
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		in.Email = &email
		if !validEmail(email) {
			v.add("email", "Enter a valid email address.")
		}
	}
	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		if user, err = tx.Users.GetByID(ctx, userID); err != nil {
			return notFound(err, "user")
		}

		if in.Email != nil && *in.Email != user.Email {
			user.Email = *in.Email
			if err := checkUnique(ctx, tx, user); err != nil {
				return err
			}
			if err := tx.Users.Update(ctx, user); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		profile, err := ensureProfile(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		if in.Phone != nil {
			if *in.Phone != profile.Phone {
				profile.PhoneVerified = false
			}
			profile.Phone = *in.Phone
		}
		if in.Address != nil {
			profile.Address = strings.TrimSpace(*in.Address)
		}
		if in.DateOfBirth != nil {
			profile.DateOfBirth = in.DateOfBirth
		}
		if err := tx.Users.UpdateProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to update user profile: %w", err)
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repos.Users.Delete(ctx, id); err != nil {
		return notFound(err, "user")
	}
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		user.Role = string(models.RoleAdmin)
		user.IsActive = true
		return false, s.SaveAccount(ctx, user, password)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     string(models.RoleAdmin),
			IsActive: true,
		}
		return true, s.SaveAccount(ctx, user, password)
	default:
		return false, fmt.Errorf("failed to load user: %w", err)
	}
}

// ensureProfile returns the user's profile, creating an empty one if the
// account has none yet.
func ensureProfile(ctx context.Context, tx *repository.Repositories, userID uint) (*models.UserProfile, error) {
	profile, err := tx.Users.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	profile = &models.UserProfile{UserID: userID}
	if err := tx.Users.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	return profile, nil
}

func checkUnique(ctx context.Context, tx *repository.Repositories, user *models.User) error {
	v := &ValidationError{}
	if other, err := tx.Users.GetByUsername(ctx, user.Username); err == nil && other.ID != user.ID {
		v.add("username", "A user with that username already exists.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if other, err := tx.Users.GetByEmail(ctx, user.Email); err == nil && other.ID != user.ID {
		v.add("email", "A user with that email already exists.")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return v.errOrNil()
}

func validateAccountFields(v *ValidationError, username, email string) {
	requireText(v, "username", username, 150)
	if username != "" && !usernamePattern.MatchString(username) {
		v.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if !validEmail(email) {
		v.add("email", "Enter a valid email address.")
	}
}

func validatePassword(v *ValidationError, password string) {
	if len(password) < minPasswordLength {
		v.add("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
