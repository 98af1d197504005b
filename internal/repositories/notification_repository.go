package repositories

import (
	"context"
	"time"

	"github.com/anonto42/quillpress/backend/internal/models"
	"gorm.io/gorm"
)

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(notification).Error)
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page Page, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.WithContext(ctx).Where("user_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.
		Order("created_at DESC, id DESC").
		Offset(page.From).Limit(page.Limit).
		Find(&notifications).Error
	return notifications, translate(err)
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", recipientID, false).Count(&count).Error
	return count, translate(err)
}

// MarkAsRead flips is_read only when the notification belongs to recipientID.
// It reports whether a matching row exists.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", recipientID, false).Update("is_read", true)
	return res.RowsAffected, translate(res.Error)
}

// DeleteReadBefore removes read notifications created before cutoff. Unread
// rows are never touched.
func (r *postgresNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&models.Notification{})
	return res.RowsAffected, translate(res.Error)
}
