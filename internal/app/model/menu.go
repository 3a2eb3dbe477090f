package model

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem is one entry of a storefront navigation menu. Items nest one
// level via ParentID.
type MenuItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Menu      string         `gorm:"type:varchar(50);not null;index" json:"menu"` // e.g. "header", "footer"
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	Label     string         `gorm:"not null" json:"label"`
	URL       string         `gorm:"not null" json:"url"`
	Position  int            `gorm:"default:0" json:"position"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Children []MenuItem `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
