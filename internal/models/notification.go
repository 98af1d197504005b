package models

import "time"

// NotificationType enumerates what triggered a notification.
type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
	NotificationClap    NotificationType = "clap"
	NotificationPublish NotificationType = "publish"
)

const (
	MessageCommentedOnPost  = "commented on your post"
	MessageRepliedToComment = "replied to your comment"
	MessageRepliedOnPost    = "replied to a comment"
	MessageStartedFollowing = "started following you"
)

// Notification is a derived record addressed to UserID. It is only mutated to
// flip IsRead and is swept once read and past retention.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index:idx_notifications_user_created,priority:1"`
	ActorID   *uint            `json:"actor_id,omitempty" gorm:"index"`
	Type      NotificationType `json:"type" gorm:"size:20;not null"`
	PostID    *uint            `json:"post_id,omitempty"`
	CommentID *uint            `json:"comment_id,omitempty"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index:idx_notifications_user_created,priority:2"`

	Actor     *UserCompact `json:"actor,omitempty" gorm:"-"`
	PostTitle string       `json:"post_title,omitempty" gorm:"-"`
}
