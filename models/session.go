package models

import "time"

// Session is the opaque credential backing cookie/bearer auth.
// At most one valid session per user: issuing a new one removes the rest.
type Session struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
