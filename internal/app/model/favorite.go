package model

import (
	"time"

	"gorm.io/gorm"
)

// Favorite is one (user, product) wishlist record. Toggling flips its
// existence.
type Favorite struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_fav_user_product" json:"user_id"`
	ProductID uint           `gorm:"not null;index:idx_fav_user_product" json:"product_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Associations (loaded with Preload)
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
