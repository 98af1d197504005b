package models

import "time"

// Bookmark represents a post saved by a user
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_post_bookmark"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_user_post_bookmark;index"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkedPost is a post in a user's bookmark list.
type BookmarkedPost struct {
	Post
	BookmarkedAt time.Time `json:"bookmarked_at"`
}
