package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/anonto42/quillpress/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// CommentService manages comment threads and posts.comments_count.
type CommentService struct {
	base
	notifications *NotificationService
}

func NewCommentService(store repositories.Store, notifications *NotificationService, opts Options) *CommentService {
	return &CommentService{
		base:          newBase(store, opts, "comments"),
		notifications: notifications,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", validationError("Content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return "", validationError("Content must be at most 2000 characters")
	}
	return content, nil
}

func recomputeCommentsCount(ctx context.Context, tx repositories.Store, postID uint) error {
	total, err := tx.Comments().CountByPostID(ctx, postID)
	if err != nil {
		return err
	}
	return tx.Posts().SetCommentsCount(ctx, postID, total)
}

// Create adds a comment or, with parentID set, a reply. The insert, the
// post's comment count and the notifications commit together.
func (s *CommentService) Create(ctx context.Context, postID, userID uint, content string, parentID *uint) (*models.Comment, error) {
	if postID == 0 {
		return nil, validationError("Post ID is required")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	comment := &models.Comment{PostID: postID, UserID: userID, ParentID: parentID, Content: content}
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := lockPost(ctx, tx, postID); err != nil {
			return err
		}
		if parentID != nil {
			parent, err := tx.Comments().GetCommentByID(ctx, *parentID)
			if errors.Is(err, repositories.ErrNotFound) {
				return notFoundError("Parent comment not found")
			}
			if err != nil {
				return err
			}
			if parent.PostID != postID {
				return validationError("Parent comment belongs to another post")
			}
		}
		if err := tx.Comments().CreateComment(ctx, comment); err != nil {
			return err
		}
		if err := recomputeCommentsCount(ctx, tx, postID); err != nil {
			return err
		}
		return s.notifications.onCommentCreated(ctx, tx, postID, userID, comment.ID, parentID)
	})
	fields := logrus.Fields{"post_id": postID, "user_id": userID}
	if err != nil {
		return nil, s.fail("create_comment", err, fields)
	}
	s.log.WithFields(fields).WithField("comment_id", comment.ID).Debug("comment created")
	return comment, nil
}

// ListByPost returns a page of top-level comments, oldest first, with their
// reply threads attached.
func (s *CommentService) ListByPost(ctx context.Context, postID uint, page, limit int) ([]models.Comment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	fields := logrus.Fields{"post_id": postID}
	roots, err := s.store.Comments().GetTopLevelByPostID(ctx, postID, repositories.NewPage(page, limit, repositories.DefaultPageLimit))
	if err != nil {
		return nil, s.fail("list_comments", err, fields)
	}

	level := make([]*models.Comment, len(roots))
	for i := range roots {
		level[i] = &roots[i]
	}
	var all []*models.Comment
	for len(level) > 0 {
		all = append(all, level...)
		ids := make([]uint, len(level))
		for i, c := range level {
			ids[i] = c.ID
		}
		replies, err := s.store.Comments().GetRepliesByParentIDs(ctx, ids)
		if err != nil {
			return nil, s.fail("list_comments", err, fields)
		}
		var next []*models.Comment
		for _, c := range level {
			c.Replies = nonNil(replies[c.ID])
			for i := range c.Replies {
				next = append(next, &c.Replies[i])
			}
		}
		level = next
	}
	if err := s.attachAuthors(ctx, all); err != nil {
		return nil, s.fail("list_comments", err, fields)
	}
	return nonNil(roots), nil
}

// attachAuthors fills Author on every comment with one user lookup.
func (s *CommentService) attachAuthors(ctx context.Context, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.store.Users().GetCompactByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if a, ok := authors[c.UserID]; ok {
			c.Author = &a
		}
	}
	return nil
}

// Update edits a comment owned by userID.
func (s *CommentService) Update(ctx context.Context, commentID, userID uint, content string) (*models.Comment, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	comment, err := s.store.Comments().UpdateContent(ctx, commentID, userID, content)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, notFoundError("Comment not found")
	}
	if err != nil {
		return nil, s.fail("update_comment", err, logrus.Fields{"comment_id": commentID, "user_id": userID})
	}
	return comment, nil
}

// Delete removes a comment owned by userID together with its replies.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	fields := logrus.Fields{"comment_id": commentID, "user_id": userID}
	var removed int64
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		comment, err := tx.Comments().GetCommentByID(ctx, commentID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && comment.UserID != userID) {
			return notFoundError("Comment not found")
		}
		if err != nil {
			return err
		}
		if _, err := lockPost(ctx, tx, comment.PostID); err != nil {
			return err
		}
		if removed, err = tx.Comments().DeleteThread(ctx, commentID); err != nil {
			return err
		}
		return recomputeCommentsCount(ctx, tx, comment.PostID)
	})
	if err != nil {
		return s.fail("delete_comment", err, fields)
	}
	s.log.WithFields(fields).WithField("removed", removed).Debug("comment deleted")
	return nil
}
