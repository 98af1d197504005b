package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return translate(r.db.WithContext(ctx).Create(bookmark).Error)
}

func (r *PostgresBookmarkRepository) DeleteBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, translate(err)
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(ctx context.Context, userID uint, page Page) ([]models.BookmarkedPost, error) {
	var posts []models.BookmarkedPost
	err := r.db.WithContext(ctx).Table("bookmarks").
		Select("posts.*, bookmarks.created_at AS bookmarked_at").
		Joins("JOIN posts ON posts.id = bookmarks.post_id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Offset(page.From).Limit(page.Limit).
		Scan(&posts).Error
	return posts, translate(err)
}
