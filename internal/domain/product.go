package domain

import "time"

type Product struct {
	ID          ProductID `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(150);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	UserID      UserID    `gorm:"index;not null" json:"userId"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
