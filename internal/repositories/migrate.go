package repositories

import (
	"github.com/anonto42/quillpress/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates every table this service reads or writes,
// including the unique indexes and check constraints the services rely on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Clap{},
		&models.Comment{},
		&models.Follow{},
		&models.Topic{},
		&models.TopicFollow{},
		&models.Bookmark{},
		&models.Notification{},
	)
	return errors.Wrap(err, "auto migrate")
}
