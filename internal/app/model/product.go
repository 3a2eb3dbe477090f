package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryBread    ProductCategory = "bread"
	CategoryPastry   ProductCategory = "pastry"
	CategoryCake     ProductCategory = "cake"
	CategoryCookie   ProductCategory = "cookie"
	CategorySandwich ProductCategory = "sandwich"
	CategoryDrink    ProductCategory = "drink"
	CategoryOther    ProductCategory = "other"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Slug          string          `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	SalesCount    int             `gorm:"default:0" json:"sales_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariant is a sellable variation of a product (size, flavor). Its
// price is the product price plus the delta.
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"not null;index" json:"product_id"`
	Name          string         `gorm:"not null" json:"name"`
	PriceDelta    float64        `gorm:"default:0" json:"price_delta"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
