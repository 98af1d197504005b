package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetCompactByIDs loads the listed users keyed by id. Unknown ids are
// absent from the result.
func (r *PostgresUserRepository) GetCompactByIDs(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	result := make(map[uint]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []models.UserCompact
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id, username, display_name, avatar").
		Where("id IN ?", ids).
		Scan(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
