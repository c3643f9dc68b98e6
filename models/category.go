package models

type Category struct {
	ID   int    `gorm:"primaryKey" json:"category_id"`
	Name string `gorm:"not null" json:"name"`
	Icon string `gorm:"not null" json:"icon"`
}
