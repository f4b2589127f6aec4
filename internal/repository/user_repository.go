package repository

import (
	"errors"
	"time"

	"github.com/authkit-go/authkit/internal/domain"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	ExistsID(id string) (bool, error)
	Create(user *domain.User) error
	UpdateUsername(id, username string) error
	SetPasswordHash(id, hash string) error
	SetEmail(id, email string) error
	SetEmailVerified(id string, verified bool) error
	TouchLastSeen(id string, now time.Time) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

// Username and email lookups are case-insensitive, matching the uniqueness
// rule on those columns.
func (r *GormUserRepository) FindByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("LOWER(username) = LOWER(?)", username).First(&u).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

func (r *GormUserRepository) ExistsID(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) Create(user *domain.User) error { return r.db.Create(user).Error }

func (r *GormUserRepository) UpdateUsername(id, username string) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("username", username).Error
}

func (r *GormUserRepository) SetPasswordHash(id, hash string) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *GormUserRepository) SetEmail(id, email string) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("email", email).Error
}

func (r *GormUserRepository) SetEmailVerified(id string, verified bool) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("email_verified", verified).Error
}

func (r *GormUserRepository) TouchLastSeen(id string, now time.Time) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("last_seen", now).Error
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
