package domain

import "time"

type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Username          string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email             string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	EmailVerified     bool       `gorm:"not null;default:false" json:"email_verified"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	IsAdmin           bool       `gorm:"not null;default:false" json:"is_admin"`
	PremiumLevel      int        `gorm:"not null;default:0" json:"premium_level"`
	BillingCustomerID *string    `gorm:"size:64" json:"billing_customer_id,omitempty"`
	Disabled          bool       `gorm:"not null;default:false" json:"disabled"`
	CreatedAt         time.Time  `json:"created_at"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
}
