package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetPostForUpdate reads the post and holds its row lock until the
// surrounding transaction ends.
func (r *PostgresPostRepository) GetPostForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

type postTitleRow struct {
	ID    uint
	Title string
}

func (r *PostgresPostRepository) GetTitlesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []postTitleRow
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("id, title").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, row := range rows {
		result[row.ID] = row.Title
	}
	return result, nil
}

// SetClapsCount stores a freshly recomputed clap total.
func (r *PostgresPostRepository) SetClapsCount(ctx context.Context, postID uint, total int64) error {
	return r.setCounter(ctx, postID, "claps_count", total)
}

// SetCommentsCount stores a freshly recomputed comment total.
func (r *PostgresPostRepository) SetCommentsCount(ctx context.Context, postID uint, total int64) error {
	return r.setCounter(ctx, postID, "comments_count", total)
}

func (r *PostgresPostRepository) setCounter(ctx context.Context, postID uint, column string, total int64) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).UpdateColumn(column, total)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
