package model

import "time"

// JWTTokenBlacklist stores revoked token IDs until their natural expiry.
// A cron job purges rows whose ExpiresAt has passed.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	JTI       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Reason    string    `gorm:"type:varchar(64)" json:"reason"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
