package repositories

import (
	"context"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresTopicRepository implements TopicRepository for PostgreSQL
type PostgresTopicRepository struct {
	db *gorm.DB
}

// NewPostgresTopicRepository creates a new PostgresTopicRepository
func NewPostgresTopicRepository(db *gorm.DB) *PostgresTopicRepository {
	return &PostgresTopicRepository{db: db}
}

func (r *PostgresTopicRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	return translate(r.db.WithContext(ctx).Create(topic).Error)
}

func (r *PostgresTopicRepository) GetTopicByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, translate(err)
	}
	return &topic, nil
}

func (r *PostgresTopicRepository) GetTopicForUpdate(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&topic, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &topic, nil
}

func (r *PostgresTopicRepository) GetTopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&topic).Error; err != nil {
		return nil, translate(err)
	}
	return &topic, nil
}

// ListTopics returns every topic, most followed first.
func (r *PostgresTopicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).
		Order("followers_count DESC").
		Order("id ASC").
		Find(&topics).Error
	return topics, translate(err)
}

func (r *PostgresTopicRepository) CreateTopicFollow(ctx context.Context, follow *models.TopicFollow) error {
	return translate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *PostgresTopicRepository) DeleteTopicFollow(ctx context.Context, userID, topicID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND topic_id = ?", userID, topicID).Delete(&models.TopicFollow{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresTopicRepository) IsFollowingTopic(ctx context.Context, userID, topicID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TopicFollow{}).Where("user_id = ? AND topic_id = ?", userID, topicID).Count(&count).Error
	return count > 0, translate(err)
}

func (r *PostgresTopicRepository) CountFollowers(ctx context.Context, topicID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TopicFollow{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, translate(err)
}

func (r *PostgresTopicRepository) SetFollowersCount(ctx context.Context, topicID uint, total int64) error {
	res := r.db.WithContext(ctx).Model(&models.Topic{}).Where("id = ?", topicID).UpdateColumn("followers_count", total)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTopicRepository) GetFollowedTopics(ctx context.Context, userID uint) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).
		Joins("JOIN topic_followers ON topic_followers.topic_id = topics.id").
		Where("topic_followers.user_id = ?", userID).
		Order("topics.name ASC").
		Find(&topics).Error
	return topics, translate(err)
}
