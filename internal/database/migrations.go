package database

import (
	"gorm.io/gorm"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Business{},
		&models.Product{},
		&models.Fund{},
		&models.AdminInvite{},
		&models.ShareCardCache{},
	)
}
