package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// GetTopLevelByPostID returns a page of a post's root comments, oldest first.
func (r *PostgresCommentRepository) GetTopLevelByPostID(ctx context.Context, postID uint, page Page) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC, id ASC").
		Offset(page.From).Limit(page.Limit).
		Find(&comments).Error
	return comments, translate(err)
}

// GetRepliesByParentIDs loads the direct replies of every given comment in
// one query, grouped by parent.
func (r *PostgresCommentRepository) GetRepliesByParentIDs(ctx context.Context, parentIDs []uint) (map[uint][]models.Comment, error) {
	result := make(map[uint][]models.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}
	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("parent_id, created_at ASC, id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, reply := range replies {
		if reply.ParentID != nil {
			result[*reply.ParentID] = append(result[*reply.ParentID], reply)
		}
	}
	return result, nil
}

// UpdateContent rewrites a comment owned by userID. A missing or foreign
// comment both yield ErrNotFound.
func (r *PostgresCommentRepository) UpdateContent(ctx context.Context, id, userID uint, content string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetCommentByID(ctx, id)
}

const deleteThreadSQL = `
WITH RECURSIVE thread AS (
	SELECT id FROM comments WHERE id = ?
	UNION ALL
	SELECT c.id FROM comments c JOIN thread t ON c.parent_id = t.id
)
DELETE FROM comments WHERE id IN (SELECT id FROM thread)`

// DeleteThread deletes a comment together with every reply below it and
// returns the number of rows removed.
func (r *PostgresCommentRepository) DeleteThread(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Exec(deleteThreadSQL, id)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

// CountByPostID returns the live number of comments on a post, replies included.
func (r *PostgresCommentRepository) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, translate(err)
}

// IncrementClaps bumps a comment's clap counter in a single statement.
func (r *PostgresCommentRepository) IncrementClaps(ctx context.Context, id uint) (*models.Comment, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("claps_count", gorm.Expr("claps_count + 1"))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetCommentByID(ctx, id)
}
