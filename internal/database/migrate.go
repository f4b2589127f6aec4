package database

import (
	"github.com/authkit-go/authkit/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.VerificationCode{},
	)
}
