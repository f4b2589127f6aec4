package repository

import (
	"errors"
	"time"

	"github.com/authkit-go/authkit/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrVerificationCodeNotFound = errors.New("verification code not found")

type VerificationCodeRepository interface {
	FindByUserID(userID string) (*domain.VerificationCode, error)
	// Replace inserts the code or overwrites the user's existing one,
	// resetting value and creation time and clearing the consumption mark.
	Replace(code *domain.VerificationCode) error
	MarkUsed(userID string, now time.Time) error
}

type GormVerificationCodeRepository struct{ db *gorm.DB }

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &GormVerificationCodeRepository{db: db}
}

func (r *GormVerificationCodeRepository) FindByUserID(userID string) (*domain.VerificationCode, error) {
	var code domain.VerificationCode
	err := r.db.Where("user_id = ?", userID).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *GormVerificationCodeRepository) Replace(code *domain.VerificationCode) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "created_at", "verified_at"}),
	}).Create(code).Error
}

func (r *GormVerificationCodeRepository) MarkUsed(userID string, now time.Time) error {
	return r.db.Model(&domain.VerificationCode{}).
		Where("user_id = ?", userID).
		Update("verified_at", now).Error
}
