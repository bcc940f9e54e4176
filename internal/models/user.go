package models

import (
	"regexp"
	"time"
)

type User struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string       `json:"-" gorm:"not null"`
	Role         string       `json:"role" gorm:"size:20;default:'customer'"` // admin, customer
	IsActive     bool         `json:"is_active"`
	Profile      *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// UserProfile holds the personal details attached one-to-one to an account.
type UserProfile struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Phone          string     `json:"phone" gorm:"size:17"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        string     `json:"address" gorm:"type:text"`
	ProfilePicture string     `json:"profile_picture"`
	EmailVerified  bool       `json:"email_verified" gorm:"default:false"`
	PhoneVerified  bool       `json:"phone_verified" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PhonePattern accepts international numbers: optional '+', up to 15 digits.
var PhonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
