package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusReadyForPickup OrderStatus = "Ready for Pickup"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentCash       PaymentMethod = "cash"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCreditCard || p == PaymentCash
}

type Order struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	UserID        string        `gorm:"column:user_id;type:varchar(36);not null;index:idx_orders_user_created,priority:1" json:"user"`
	OrderNumber   string        `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderNumber"`
	Items         []OrderItem   `gorm:"type:text;serializer:json" json:"items"`
	Subtotal      float64       `gorm:"type:decimal(10,2)" json:"subtotal"`
	Tax           float64       `gorm:"type:decimal(10,2)" json:"tax"`
	Total         float64       `gorm:"type:decimal(10,2)" json:"total"`
	Status        OrderStatus   `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	CreatedAt     time.Time     `gorm:"precision:6;index:idx_orders_user_created,priority:2" json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of a menu item at ordering time.
type OrderItem struct {
	MenuItemID string  `json:"menuItemId,omitempty"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Image      string  `json:"image,omitempty"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
