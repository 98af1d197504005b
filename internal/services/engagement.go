package services

import (
	"context"
	"errors"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// EngagementService owns per-user post claps, comment claps and the
// posts.claps_count aggregate.
type EngagementService struct {
	base
}

func NewEngagementService(store repositories.Store, opts Options) *EngagementService {
	return &EngagementService{base: newBase(store, opts, "engagement")}
}

// capClaps adds delta to current without exceeding MaxClapsPerUser.
func capClaps(current, delta int) int {
	if delta >= models.MaxClapsPerUser-current {
		return models.MaxClapsPerUser
	}
	return current + delta
}

func loadPost(ctx context.Context, tx repositories.Store, postID uint) (*models.Post, error) {
	post, err := tx.Posts().GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Post not found")
	}
	return post, err
}

// lockPost holds the post row until tx ends. Writers that recompute a post
// counter call it before their detail write so their recomputes run in turn.
func lockPost(ctx context.Context, tx repositories.Store, postID uint) (*models.Post, error) {
	post, err := tx.Posts().GetPostForUpdate(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Post not found")
	}
	return post, err
}

// recomputePostClaps overwrites posts.claps_count with the sum of the post's
// clap rows. Running it twice gives the same result.
func recomputePostClaps(ctx context.Context, tx repositories.Store, postID uint) (int64, error) {
	total, err := tx.Claps().SumByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if err := tx.Posts().SetClapsCount(ctx, postID, total); err != nil {
		return 0, err
	}
	return total, nil
}

// ApplyClaps adds delta claps from userID to postID, capped at
// MaxClapsPerUser, and returns the user's new count for the post.
func (s *EngagementService) ApplyClaps(ctx context.Context, postID, userID uint, delta int) (int, error) {
	if delta < 1 {
		return 0, validationError("Clap count must be at least 1")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var newCount int
	apply := func(tx repositories.Store) error {
		if _, err := lockPost(ctx, tx, postID); err != nil {
			return err
		}
		existing, err := tx.Claps().GetClapForUpdate(ctx, postID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			newCount = capClaps(existing.Count, delta)
			if err := tx.Claps().UpdateClapCount(ctx, existing.ID, newCount); err != nil {
				return err
			}
		} else {
			newCount = capClaps(0, delta)
			clap := &models.Clap{PostID: postID, UserID: userID, Count: newCount}
			if err := tx.Claps().CreateClap(ctx, clap); err != nil {
				return err
			}
		}
		_, err = recomputePostClaps(ctx, tx, postID)
		return err
	}

	err := s.store.Transaction(ctx, apply)
	if errors.Is(err, repositories.ErrDuplicate) {
		// A concurrent first clap won the insert; the row exists now.
		err = s.store.Transaction(ctx, apply)
	}
	fields := logrus.Fields{"post_id": postID, "user_id": userID}
	if err != nil {
		return 0, s.fail("apply_claps", err, fields)
	}
	s.log.WithFields(fields).WithField("count", newCount).Debug("claps applied")
	return newCount, nil
}

// RemoveClaps deletes the user's claps on a post and recomputes the post's
// total. Having no claps, or no such post, is not an error; the result
// reports whether a row was removed.
func (s *EngagementService) RemoveClaps(ctx context.Context, postID, userID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var removed bool
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockPost(ctx, tx, postID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		var err error
		if removed, err = tx.Claps().DeleteClap(ctx, postID, userID); err != nil {
			return err
		}
		_, err = recomputePostClaps(ctx, tx, postID)
		return err
	})
	fields := logrus.Fields{"post_id": postID, "user_id": userID}
	if err != nil {
		return false, s.fail("remove_claps", err, fields)
	}
	s.log.WithFields(fields).WithField("removed", removed).Debug("claps removed")
	return removed, nil
}

// GetClapsCount returns the stored aggregate for a post, or 0 when the post
// does not exist.
func (s *EngagementService) GetClapsCount(ctx context.Context, postID uint) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	post, err := s.store.Posts().GetPostByID(ctx, postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, s.fail("get_claps_count", err, logrus.Fields{"post_id": postID})
	}
	return post.ClapsCount, nil
}

func (s *EngagementService) GetUserClaps(ctx context.Context, postID, userID uint) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	count, err := s.store.Claps().GetUserClaps(ctx, postID, userID)
	if err != nil {
		return 0, s.fail("get_user_claps", err, logrus.Fields{"post_id": postID, "user_id": userID})
	}
	return count, nil
}

// ListClappers returns the users who clapped a post, biggest clappers first.
func (s *EngagementService) ListClappers(ctx context.Context, postID uint) ([]models.Clapper, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	clappers, err := s.store.Claps().ListClappers(ctx, postID)
	if err != nil {
		return nil, s.fail("list_clappers", err, logrus.Fields{"post_id": postID})
	}
	return nonNil(clappers), nil
}

// ClapComment adds one clap to a comment. Comment claps have no per-user
// record and no cap.
func (s *EngagementService) ClapComment(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	comment, err := s.store.Comments().IncrementClaps(ctx, commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Comment not found")
	}
	if err != nil {
		return nil, s.fail("clap_comment", err, logrus.Fields{"comment_id": commentID, "user_id": userID})
	}
	return comment, nil
}

// RecomputePostClaps rebuilds posts.claps_count from the clap rows.
func (s *EngagementService) RecomputePostClaps(ctx context.Context, postID uint) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var total int64
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockPost(ctx, tx, postID); err != nil {
			return err
		}
		var err error
		total, err = recomputePostClaps(ctx, tx, postID)
		return err
	})
	if err != nil {
		return 0, s.fail("recompute_post_claps", err, logrus.Fields{"post_id": postID})
	}
	return total, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
