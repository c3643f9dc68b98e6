package models

type Product struct {
	ID            string   `gorm:"primaryKey" json:"product_id"`
	Name          string   `gorm:"not null;index" json:"name"`
	Price         float64  `gorm:"not null" json:"price"`
	OriginalPrice *float64 `json:"original_price"`
	Discount      int      `json:"discount"`
	Image         string   `gorm:"not null" json:"image"`
	Category      string   `gorm:"not null" json:"category"`
	CategoryID    int      `gorm:"index" json:"category_id"`
	FreeShipping  bool     `json:"free_shipping"`
	Rating        *float64 `json:"rating"`
	Reviews       int      `json:"reviews"`
	Sold          int      `json:"sold"`
	Stock         int      `json:"stock"` // never negative; only checkout decrements it
	Description   string   `gorm:"type:text;not null" json:"description"`
	Features      []string `gorm:"serializer:json" json:"features"`
	Colors        []string `gorm:"serializer:json" json:"colors"`
	Seller        string   `gorm:"not null" json:"seller"`
	Verified      bool     `json:"verified"`
}
