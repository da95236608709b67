// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

// Product is owned by the user that created it. Name, SKU and barcode carry
// unique indexes that back the service-level duplicate checks.
type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null;uniqueIndex"`
	Description *string         `json:"description" gorm:"type:text"`
	SKU         string          `json:"sku" gorm:"column:sku;size:100;not null;uniqueIndex"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Category    *string         `json:"category" gorm:"size:100;index"`
	ImageURL    *string         `json:"imageUrl" gorm:"column:image_url;size:1024"`
	Supplier    *string         `json:"supplier" gorm:"size:255"`
	Barcode     string          `json:"barcode" gorm:"size:100;not null;uniqueIndex"`
	IsActive    bool            `json:"isActive" gorm:"not null"`
	UserID      uint            `json:"userId" gorm:"not null;index"`
}
