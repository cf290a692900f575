package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	OrderNo string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_no"`
	UserID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Status  OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Total   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"` // fixed at creation

	// Payment metadata, set only by payment confirmation.
	TransactionID    *string    `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	PaymentTimestamp *time.Time `json:"payment_timestamp,omitempty"`
	Notes            string     `json:"notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // snapshot at order time

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// OrderSummary is the compact shape used by order listings.
type OrderSummary struct {
	ID        uuid.UUID       `json:"id"`
	OrderNo   string          `json:"order_no"`
	UserID    uuid.UUID       `json:"user_id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	CreatedAt string          `json:"created_at"`
}

// ToSummary flattens an order (items preloaded) for listings.
func (o *Order) ToSummary() OrderSummary {
	return OrderSummary{
		ID:        o.ID,
		OrderNo:   o.OrderNo,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total,
		ItemCount: len(o.Items),
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
