package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the edge. The unique index is the duplicate check.
func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return translate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint, page Page) ([]models.FollowedUser, error) {
	return r.listEdges(ctx, "followers.follower_id", "followers.following_id", userID, page)
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint, page Page) ([]models.FollowedUser, error) {
	return r.listEdges(ctx, "followers.following_id", "followers.follower_id", userID, page)
}

func (r *PostgresFollowRepository) listEdges(ctx context.Context, joinColumn, filterColumn string, userID uint, page Page) ([]models.FollowedUser, error) {
	var users []models.FollowedUser
	err := r.db.WithContext(ctx).Table("followers").
		Select("users.id, users.username, users.display_name, users.avatar, users.bio, followers.created_at AS followed_at").
		Joins("JOIN users ON users.id = "+joinColumn).
		Where(filterColumn+" = ?", userID).
		Order("followers.created_at DESC, followers.id DESC").
		Offset(page.From).Limit(page.Limit).
		Scan(&users).Error
	return users, translate(err)
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, translate(err)
}
