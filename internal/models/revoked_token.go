package models

import "time"

// RevokedToken records a refresh token jti that must never be exchanged
// again, either because it was rotated on use or revoked by logout.
// Rows past their ExpiresAt can be swept: an expired token is already
// rejected on expiry grounds.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;size:36;not null" json:"jti"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
