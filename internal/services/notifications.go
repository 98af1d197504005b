package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// DefaultRetention is how long read notifications are kept by Sweep.
const DefaultRetention = 30 * 24 * time.Hour

// NotificationInput describes one notification to create. No notification is
// created when RecipientID equals ActorID.
type NotificationInput struct {
	RecipientID uint
	ActorID     uint
	Type        models.NotificationType
	PostID      *uint
	CommentID   *uint
	Message     string
}

// NotificationService fans social events out to notifications and serves
// each recipient's inbox.
type NotificationService struct {
	base
	now func() time.Time
}

func NewNotificationService(store repositories.Store, opts Options) *NotificationService {
	return &NotificationService{
		base: newBase(store, opts, "notifications"),
		now:  time.Now,
	}
}

func (s *NotificationService) notify(ctx context.Context, tx repositories.Store, in NotificationInput) (*models.Notification, error) {
	if in.RecipientID == in.ActorID {
		return nil, nil
	}
	actorID := in.ActorID
	n := &models.Notification{
		UserID:    in.RecipientID,
		ActorID:   &actorID,
		Type:      in.Type,
		PostID:    in.PostID,
		CommentID: in.CommentID,
		Message:   in.Message,
	}
	if err := tx.Notifications().CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Notify creates a single notification. It returns nil, nil for
// self-notifications.
func (s *NotificationService) Notify(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	if in.RecipientID == 0 {
		return nil, validationError("Recipient is required")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.notify(ctx, s.store, in)
	if err != nil {
		return nil, s.fail("notify", err, logrus.Fields{"recipient_id": in.RecipientID, "type": in.Type})
	}
	return n, nil
}

// onCommentCreated notifies the post owner and, for replies, the parent
// comment's author. Both are sent when they differ from the actor, even if
// they are the same user.
func (s *NotificationService) onCommentCreated(ctx context.Context, tx repositories.Store, postID, actorID, commentID uint, parentID *uint) error {
	post, err := loadPost(ctx, tx, postID)
	if err != nil {
		return err
	}
	ownerType, ownerMessage := models.NotificationComment, models.MessageCommentedOnPost
	if parentID != nil {
		ownerType, ownerMessage = models.NotificationReply, models.MessageRepliedOnPost
	}
	_, err = s.notify(ctx, tx, NotificationInput{
		RecipientID: post.UserID,
		ActorID:     actorID,
		Type:        ownerType,
		PostID:      &postID,
		CommentID:   &commentID,
		Message:     ownerMessage,
	})
	if err != nil || parentID == nil {
		return err
	}

	parent, err := tx.Comments().GetCommentByID(ctx, *parentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFoundError("Parent comment not found")
	}
	if err != nil {
		return err
	}
	_, err = s.notify(ctx, tx, NotificationInput{
		RecipientID: parent.UserID,
		ActorID:     actorID,
		Type:        models.NotificationReply,
		PostID:      &postID,
		CommentID:   &commentID,
		Message:     models.MessageRepliedToComment,
	})
	return err
}

// OnCommentCreated runs the comment fanout in its own transaction.
func (s *NotificationService) OnCommentCreated(ctx context.Context, postID, actorID, commentID uint, parentID *uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		return s.onCommentCreated(ctx, tx, postID, actorID, commentID, parentID)
	})
	if err != nil {
		return s.fail("on_comment_created", err, logrus.Fields{"post_id": postID, "comment_id": commentID})
	}
	return nil
}

func (s *NotificationService) onFollowCreated(ctx context.Context, tx repositories.Store, followerID, followingID uint) error {
	_, err := s.notify(ctx, tx, NotificationInput{
		RecipientID: followingID,
		ActorID:     followerID,
		Type:        models.NotificationFollow,
		Message:     models.MessageStartedFollowing,
	})
	return err
}

// OnFollowCreated notifies followingID about a new follower.
func (s *NotificationService) OnFollowCreated(ctx context.Context, followerID, followingID uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.onFollowCreated(ctx, s.store, followerID, followingID); err != nil {
		return s.fail("on_follow_created", err, logrus.Fields{"follower_id": followerID, "following_id": followingID})
	}
	return nil
}

// List returns a page of the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, page, limit int, unreadOnly bool) ([]models.Notification, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := repositories.NewPage(page, limit, repositories.DefaultPageLimit)
	list, err := s.store.Notifications().GetByRecipientID(ctx, userID, p, unreadOnly)
	if err == nil {
		err = s.attachContext(ctx, list)
	}
	if err != nil {
		return nil, s.fail("list_notifications", err, logrus.Fields{"user_id": userID})
	}
	return nonNil(list), nil
}

// attachContext embeds the actor and the post title in each notification.
func (s *NotificationService) attachContext(ctx context.Context, list []models.Notification) error {
	var actorIDs, postIDs []uint
	for _, n := range list {
		if n.ActorID != nil {
			actorIDs = append(actorIDs, *n.ActorID)
		}
		if n.PostID != nil {
			postIDs = append(postIDs, *n.PostID)
		}
	}
	actors, err := s.store.Users().GetCompactByIDs(ctx, actorIDs)
	if err != nil {
		return err
	}
	titles, err := s.store.Posts().GetTitlesByIDs(ctx, postIDs)
	if err != nil {
		return err
	}
	for i := range list {
		if id := list[i].ActorID; id != nil {
			if a, ok := actors[*id]; ok {
				list[i].Actor = &a
			}
		}
		if id := list[i].PostID; id != nil {
			list[i].PostTitle = titles[*id]
		}
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	count, err := s.store.Notifications().GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, s.fail("unread_count", err, logrus.Fields{"user_id": userID})
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read. Ids that are
// missing or belong to someone else are reported the same way.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.store.Notifications().MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		return s.fail("mark_read", err, logrus.Fields{"notification_id": notificationID, "user_id": userID})
	}
	if !ok {
		return notFoundError("Notification not found")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.store.Notifications().MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, s.fail("mark_all_read", err, logrus.Fields{"user_id": userID})
	}
	return n, nil
}

// Sweep deletes read notifications older than olderThan. Unread
// notifications are kept regardless of age.
func (s *NotificationService) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = DefaultRetention
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cutoff := s.now().Add(-olderThan)
	removed, err := s.store.Notifications().DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, s.fail("sweep", err, logrus.Fields{"cutoff": cutoff})
	}
	s.log.WithFields(logrus.Fields{"cutoff": cutoff, "removed": removed}).Info("notification sweep finished")
	return removed, nil
}
