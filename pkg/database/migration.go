package database

import (
	"github.com/Payphone-Digital/chirpy/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the users, refresh_tokens and chirps tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Chirp{},
	)
}
