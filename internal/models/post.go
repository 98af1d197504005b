package models

import "time"

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post carries the denormalized engagement counters. ClapsCount is the sum of
// Clap.Count for the post and CommentsCount the number of Comment rows; both
// are only ever written by recomputing from those tables.
type Post struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"index;not null"`
	Title         string     `json:"title" gorm:"size:150"`
	Status        string     `json:"status" gorm:"size:20;default:'draft'"`
	ClapsCount    int64      `json:"claps_count" gorm:"not null;default:0"`
	CommentsCount int64      `json:"comments_count" gorm:"not null;default:0"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
