package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

type Product struct {
	BaseModel
	Slug          string     `gorm:"uniqueIndex" json:"slug"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	PriceB2C      float64    `json:"price_b2c"`
	PriceB2B      *float64   `json:"price_b2b,omitempty"`
	StockQuantity int        `json:"stock_quantity"`
	ImageURL      string     `json:"image_url"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CategoryID    *uuid.UUID `gorm:"type:uuid" json:"category_id"`
	Category      *Category  `json:"category,omitempty"`
}
