package models

import "time"

type Feedback struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100"`
	Email      string    `json:"email" gorm:"size:254"`
	Rating     int       `json:"rating" gorm:"not null;index"`
	Comments   string    `json:"comments" gorm:"type:text;not null"`
	IsApproved bool      `json:"is_approved" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// RatingLabels maps the 1-5 scale to the labels shown in the feedback form.
var RatingLabels = map[int]string{
	1: "1 - Poor",
	2: "2 - Fair",
	3: "3 - Good",
	4: "4 - Very Good",
	5: "5 - Excellent",
}

type ContactSubmission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Email       string    `json:"email" gorm:"size:254;not null"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	IsReviewed  bool      `json:"is_reviewed" gorm:"default:false;index"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime;index"`
}
