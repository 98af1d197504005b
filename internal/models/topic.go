package models

import "time"

// Topic is a subscription target. FollowersCount mirrors the number of
// TopicFollow rows for the topic.
type Topic struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:80;not null"`
	Slug           string    `json:"slug" gorm:"size:80;uniqueIndex"`
	Description    string    `json:"description,omitempty"`
	FollowersCount int64     `json:"followers_count" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
}

// TopicFollow subscribes a user to a topic.
type TopicFollow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_topic_follower"`
	TopicID   uint      `json:"topic_id" gorm:"not null;uniqueIndex:idx_topic_follower;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (TopicFollow) TableName() string {
	return "topic_followers"
}

// CreateTopicRequest defines the request body for creating a topic
type CreateTopicRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
}
