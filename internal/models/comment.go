package models

import "time"

// MaxCommentLength is the longest comment body accepted.
const MaxCommentLength = 2000

// Comment is a comment on a post. ParentID links a reply to the comment it
// answers; the UI shows a single level of threading but the table does not
// enforce depth.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"not null;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ParentID   *uint     `json:"parent_id,omitempty" gorm:"index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	ClapsCount int64     `json:"claps_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Author  *UserCompact `json:"author,omitempty" gorm:"-"`
	Replies []Comment    `json:"replies,omitempty" gorm:"-"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
