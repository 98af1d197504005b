package models

import "time"

// Follow is a directed edge of the follower graph. (FollowerID, FollowingID)
// is unique and the two ids never match.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_following;check:chk_no_self_follow,follower_id <> following_id"`
	FollowingID uint      `json:"following_id" gorm:"not null;uniqueIndex:idx_follower_following;index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "followers"
}

// FollowedUser is a user listed in a followers/following page.
type FollowedUser struct {
	UserCompact
	Bio        string    `json:"bio,omitempty"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowCounts are live edge counts for a user.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
