package domain

import "time"

// VerificationCode is the single in-flight code for a user. Creating a new
// code replaces the row, so at most one record exists per user.
type VerificationCode struct {
	UserID     string     `gorm:"primaryKey;size:36" json:"user_id"`
	Value      string     `gorm:"size:6;not null" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
