package repositories

import (
	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Store{},
		&models.Review{},
		&models.Reaction{},
		&models.Follow{},
		&models.Notification{},
		&models.Conversation{},
		&models.DirectMessage{},
	)
}
