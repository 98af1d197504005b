package models

import "time"

// MaxClapsPerUser bounds the applause a single user can give one post.
const MaxClapsPerUser = 50

// Clap is a user's accumulated applause on a post. At most one row exists per
// (post, user) and Count stays within 1..MaxClapsPerUser.
type Clap struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_claps_post_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_claps_post_user;index"`
	Count     int       `json:"count" gorm:"not null;check:chk_claps_count,count BETWEEN 1 AND 50"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clapper is one row of a post's clapper list.
type Clapper struct {
	Count int         `json:"count"`
	User  UserCompact `json:"user"`
}

// ApplyClapsRequest defines the request body for clapping a post
type ApplyClapsRequest struct {
	Count int `json:"count" validate:"omitempty,min=1"`
}
