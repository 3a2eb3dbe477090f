package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type FulfillmentType string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"

	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Code            string          `gorm:"uniqueIndex;not null" json:"code"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	FulfillmentType FulfillmentType `gorm:"type:varchar(20);default:'pickup'" json:"fulfillment_type"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address,omitempty"`
	Note            string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem freezes a cart line at checkout time: name and unit price are
// copied so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	ProductID *uint          `gorm:"index" json:"product_id,omitempty"`
	VariantID *uint          `gorm:"index" json:"variant_id,omitempty"`
	Name      string         `gorm:"not null" json:"name"`
	UnitPrice float64        `gorm:"not null" json:"unit_price"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	Subtotal  float64        `gorm:"not null" json:"subtotal"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
