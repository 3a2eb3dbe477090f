package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// JSONMap stores free-form display attributes as a JSON column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// CartLine is one line of a user's server-side cart. LineID is derived from
// the product/variant pair (or randomly assigned for custom lines) and is
// unique within a user's cart.
type CartLine struct {
	ID         uint           `gorm:"primarykey" json:"-"`
	UserID     uint           `gorm:"not null;index:idx_cart_user_line" json:"-"`
	LineID     string         `gorm:"not null;index:idx_cart_user_line" json:"line_id"`
	ProductID  *uint          `gorm:"index" json:"product_id,omitempty"`
	VariantID  *uint          `gorm:"index" json:"variant_id,omitempty"`
	Quantity   int            `gorm:"not null;default:1" json:"quantity"`
	Attributes JSONMap        `gorm:"type:jsonb" json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}
