package models

import "time"

// SingletonID is the fixed primary key of configuration-like tables.
const SingletonID uint = 1

type RestaurantProfile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null;default:'Tasty Bites'"`
	Description  string    `json:"description" gorm:"type:text"`
	Phone        string    `json:"phone" gorm:"size:20"`
	WeekdayHours string    `json:"weekday_hours" gorm:"size:100"`
	WeekendHours string    `json:"weekend_hours" gorm:"size:100"`
	Logo         string    `json:"logo"`
	AboutUs      string    `json:"about_us" gorm:"type:text"`
	AboutImage   string    `json:"about_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RestaurantConfiguration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Tagline   string    `json:"tagline" gorm:"size:200"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RestaurantLocation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Address     string    `json:"address" gorm:"type:text"`
	Phone       string    `json:"phone" gorm:"size:20"`
	Email       string    `json:"email" gorm:"size:254"`
	MapEmbedURL string    `json:"map_embed_url" gorm:"type:text"`
	Hours       string    `json:"hours" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
