package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresClapRepository implements ClapRepository for PostgreSQL
type PostgresClapRepository struct {
	db *gorm.DB
}

// NewPostgresClapRepository creates a new PostgresClapRepository
func NewPostgresClapRepository(db *gorm.DB) *PostgresClapRepository {
	return &PostgresClapRepository{db: db}
}

// GetClapForUpdate loads the (post, user) row and locks it for the rest of
// the surrounding transaction so concurrent claps by the same user serialise.
func (r *PostgresClapRepository) GetClapForUpdate(ctx context.Context, postID, userID uint) (*models.Clap, error) {
	var clap models.Clap
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Take(&clap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &clap, nil
}

func (r *PostgresClapRepository) CreateClap(ctx context.Context, clap *models.Clap) error {
	return translate(r.db.WithContext(ctx).Create(clap).Error)
}

func (r *PostgresClapRepository) UpdateClapCount(ctx context.Context, clapID uint, count int) error {
	res := r.db.WithContext(ctx).Model(&models.Clap{}).Where("id = ?", clapID).Update("count", count)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClap removes the user's claps on a post. It reports whether a row
// existed; absence is not an error.
func (r *PostgresClapRepository) DeleteClap(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Clap{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresClapRepository) GetUserClaps(ctx context.Context, postID, userID uint) (int, error) {
	var counts []int
	err := r.db.WithContext(ctx).Model(&models.Clap{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Pluck("count", &counts).Error
	if err != nil {
		return 0, translate(err)
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0], nil
}

// SumByPost returns the live sum of every user's claps on a post.
func (r *PostgresClapRepository) SumByPost(ctx context.Context, postID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Clap{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&total).Error
	return total, translate(err)
}

type clapperRow struct {
	Count       int
	ID          uint
	Username    string
	DisplayName string
	Avatar      string
}

func (r *PostgresClapRepository) ListClappers(ctx context.Context, postID uint) ([]models.Clapper, error) {
	var rows []clapperRow
	err := r.db.WithContext(ctx).Table("claps").
		Select("claps.count, users.id, users.username, users.display_name, users.avatar").
		Joins("JOIN users ON users.id = claps.user_id").
		Where("claps.post_id = ?", postID).
		Order("claps.count DESC, claps.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	clappers := make([]models.Clapper, len(rows))
	for i, row := range rows {
		clappers[i] = models.Clapper{
			Count: row.Count,
			User: models.UserCompact{
				ID:          row.ID,
				Username:    row.Username,
				DisplayName: row.DisplayName,
				Avatar:      row.Avatar,
			},
		}
	}
	return clappers, nil
}
