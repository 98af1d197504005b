package services

import (
	"context"
	"errors"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// FollowService maintains the user follower graph and topic subscriptions.
type FollowService struct {
	base
	notifications *NotificationService
}

func NewFollowService(store repositories.Store, notifications *NotificationService, opts Options) *FollowService {
	return &FollowService{
		base:          newBase(store, opts, "follows"),
		notifications: notifications,
	}
}

// FollowUser creates the edge followerID -> followingID and notifies the
// followed user in the same transaction.
func (s *FollowService) FollowUser(ctx context.Context, followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, selfReferenceError("You cannot follow yourself")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetUserByID(ctx, followingID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundError("User not found")
			}
			return err
		}
		following, err := tx.Follows().IsFollowing(ctx, followerID, followingID)
		if err != nil {
			return err
		}
		if following {
			return conflictError("Already following this user")
		}
		if err := tx.Follows().CreateFollow(ctx, follow); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return conflictError("Already following this user")
			}
			return err
		}
		return s.notifications.onFollowCreated(ctx, tx, followerID, followingID)
	})
	fields := logrus.Fields{"follower_id": followerID, "following_id": followingID}
	if err != nil {
		return nil, s.fail("follow_user", err, fields)
	}
	s.log.WithFields(fields).Debug("user followed")
	return follow, nil
}

// UnfollowUser removes the edge if present. Removing a missing edge succeeds.
func (s *FollowService) UnfollowUser(ctx context.Context, followerID, followingID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	removed, err := s.store.Follows().DeleteFollow(ctx, followerID, followingID)
	if err != nil {
		return false, s.fail("unfollow_user", err, logrus.Fields{"follower_id": followerID, "following_id": followingID})
	}
	return removed, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.store.Follows().IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, s.fail("is_following", err, logrus.Fields{"follower_id": followerID, "following_id": followingID})
	}
	return ok, nil
}

func (s *FollowService) GetFollowers(ctx context.Context, userID uint, page, limit int) ([]models.FollowedUser, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	users, err := s.store.Follows().GetFollowers(ctx, userID, repositories.NewPage(page, limit, repositories.DefaultPageLimit))
	if err != nil {
		return nil, s.fail("get_followers", err, logrus.Fields{"user_id": userID})
	}
	return nonNil(users), nil
}

func (s *FollowService) GetFollowing(ctx context.Context, userID uint, page, limit int) ([]models.FollowedUser, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	users, err := s.store.Follows().GetFollowing(ctx, userID, repositories.NewPage(page, limit, repositories.DefaultPageLimit))
	if err != nil {
		return nil, s.fail("get_following", err, logrus.Fields{"user_id": userID})
	}
	return nonNil(users), nil
}

// GetFollowCounts counts edges live; there is no stored follower counter.
func (s *FollowService) GetFollowCounts(ctx context.Context, userID uint) (models.FollowCounts, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var counts models.FollowCounts
	var err error
	if counts.Followers, err = s.store.Follows().GetFollowersCount(ctx, userID); err != nil {
		return counts, s.fail("get_follow_counts", err, logrus.Fields{"user_id": userID})
	}
	if counts.Following, err = s.store.Follows().GetFollowingCount(ctx, userID); err != nil {
		return counts, s.fail("get_follow_counts", err, logrus.Fields{"user_id": userID})
	}
	return counts, nil
}

// recomputeTopicFollowers overwrites topics.followers_count with the number
// of subscription rows.
func recomputeTopicFollowers(ctx context.Context, tx repositories.Store, topicID uint) error {
	total, err := tx.Topics().CountFollowers(ctx, topicID)
	if err != nil {
		return err
	}
	return tx.Topics().SetFollowersCount(ctx, topicID, total)
}

// lockTopic holds the topic row until tx ends so followers_count recomputes
// on one topic are serialised.
func lockTopic(ctx context.Context, tx repositories.Store, topicID uint) (*models.Topic, error) {
	topic, err := tx.Topics().GetTopicForUpdate(ctx, topicID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Topic not found")
	}
	return topic, err
}

func (s *FollowService) FollowTopic(ctx context.Context, userID, topicID uint) (*models.TopicFollow, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	follow := &models.TopicFollow{UserID: userID, TopicID: topicID}
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockTopic(ctx, tx, topicID); err != nil {
			return err
		}
		following, err := tx.Topics().IsFollowingTopic(ctx, userID, topicID)
		if err != nil {
			return err
		}
		if following {
			return conflictError("Already following this topic")
		}
		if err := tx.Topics().CreateTopicFollow(ctx, follow); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return conflictError("Already following this topic")
			}
			return err
		}
		return recomputeTopicFollowers(ctx, tx, topicID)
	})
	if err != nil {
		return nil, s.fail("follow_topic", err, logrus.Fields{"user_id": userID, "topic_id": topicID})
	}
	return follow, nil
}

// UnfollowTopic removes the subscription if present and refreshes the
// topic's follower count. An unknown topic is treated as nothing to remove.
func (s *FollowService) UnfollowTopic(ctx context.Context, userID, topicID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var removed bool
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockTopic(ctx, tx, topicID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		var err error
		if removed, err = tx.Topics().DeleteTopicFollow(ctx, userID, topicID); err != nil {
			return err
		}
		return recomputeTopicFollowers(ctx, tx, topicID)
	})
	if err != nil {
		return false, s.fail("unfollow_topic", err, logrus.Fields{"user_id": userID, "topic_id": topicID})
	}
	return removed, nil
}

func (s *FollowService) IsFollowingTopic(ctx context.Context, userID, topicID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.store.Topics().IsFollowingTopic(ctx, userID, topicID)
	if err != nil {
		return false, s.fail("is_following_topic", err, logrus.Fields{"user_id": userID, "topic_id": topicID})
	}
	return ok, nil
}

func (s *FollowService) GetFollowedTopics(ctx context.Context, userID uint) ([]models.Topic, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	topics, err := s.store.Topics().GetFollowedTopics(ctx, userID)
	if err != nil {
		return nil, s.fail("get_followed_topics", err, logrus.Fields{"user_id": userID})
	}
	return nonNil(topics), nil
}
