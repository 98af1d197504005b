package services

import (
	"context"
	"errors"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

type BookmarkService struct {
	base
}

func NewBookmarkService(store repositories.Store, opts Options) *BookmarkService {
	return &BookmarkService{base: newBase(store, opts, "bookmarks")}
}

func (s *BookmarkService) Add(ctx context.Context, userID, postID uint) (*models.Bookmark, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	bookmark := &models.Bookmark{UserID: userID, PostID: postID}
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := loadPost(ctx, tx, postID); err != nil {
			return err
		}
		marked, err := tx.Bookmarks().IsBookmarked(ctx, userID, postID)
		if err != nil {
			return err
		}
		if marked {
			return conflictError("Already bookmarked")
		}
		err = tx.Bookmarks().CreateBookmark(ctx, bookmark)
		if errors.Is(err, repositories.ErrDuplicate) {
			return conflictError("Already bookmarked")
		}
		return err
	})
	if err != nil {
		return nil, s.fail("add_bookmark", err, logrus.Fields{"user_id": userID, "post_id": postID})
	}
	return bookmark, nil
}

// Remove deletes the bookmark if present.
func (s *BookmarkService) Remove(ctx context.Context, userID, postID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	removed, err := s.store.Bookmarks().DeleteBookmark(ctx, userID, postID)
	if err != nil {
		return false, s.fail("remove_bookmark", err, logrus.Fields{"user_id": userID, "post_id": postID})
	}
	return removed, nil
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.store.Bookmarks().IsBookmarked(ctx, userID, postID)
	if err != nil {
		return false, s.fail("is_bookmarked", err, logrus.Fields{"user_id": userID, "post_id": postID})
	}
	return ok, nil
}

// List returns the user's bookmarked posts, most recently saved first.
func (s *BookmarkService) List(ctx context.Context, userID uint, page, limit int) ([]models.BookmarkedPost, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	posts, err := s.store.Bookmarks().GetBookmarksByUser(ctx, userID, repositories.NewPage(page, limit, repositories.DefaultPageLimit))
	if err != nil {
		return nil, s.fail("list_bookmarks", err, logrus.Fields{"user_id": userID})
	}
	return nonNil(posts), nil
}
