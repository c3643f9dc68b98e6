package models

import "time"

type User struct {
	ID           string  `gorm:"primaryKey" json:"user_id"`
	GoogleID     *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Name         string  `gorm:"not null" json:"name"`
	PasswordHash *string `json:"-"`
	Picture      *string `json:"picture"`
	CreatedAt    time.Time `json:"created_at"`
}

// Favorite is one user→product bookmark. Stored as explicit join rows
// so removing a user can delete them in order with everything else it owns.
type Favorite struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"uniqueIndex:idx_user_product;index"`
	ProductID string `gorm:"uniqueIndex:idx_user_product"`
}
