package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex;not null" json:"user_id"` // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem is one (product, color) line. Lines never duplicate a
// (product, color) pair inside a cart; adds merge by summing quantity.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_product_color" json:"-"`
	ProductID string    `gorm:"uniqueIndex:idx_cart_product_color" json:"product_id"`
	Color     string    `gorm:"uniqueIndex:idx_cart_product_color" json:"color,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
