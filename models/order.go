package models

import "time"

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is immutable once created: item snapshots, shipping and total
// are fixed at checkout time and never follow later catalog edits.
type Order struct {
	ID          string       `gorm:"primaryKey" json:"order_id"`
	UserID      string       `gorm:"index;not null" json:"user_id"`
	OrderNumber string       `gorm:"uniqueIndex;not null" json:"order_number"`
	Items       []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`
	Shipping    ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Total       float64      `gorm:"not null" json:"total"`
	Status      OrderStatus  `gorm:"type:varchar(20);default:'confirmed'" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// OrderItem is a snapshot of a cart line taken at checkout.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   string  `gorm:"index" json:"-"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Image     string  `json:"image"`
}

// ShippingInfo is the address snapshot embedded in an order,
// the same way the user address embeds elsewhere.
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}
