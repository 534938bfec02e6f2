package models

import "time"

// PasswordResetToken is a single-use token for resetting a forgotten
// password. A user has at most one live token; issuing a new one
// overwrites it. Expiry is computed from CreatedAt at read time.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:100;not null" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// ExpiresAfter reports whether the token is older than ttl at the
// given instant.
func (t *PasswordResetToken) ExpiresAfter(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) > ttl
}
