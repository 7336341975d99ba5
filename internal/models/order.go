package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderTypeB2B = "B2B"
	OrderTypeB2C = "B2C"
)

const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusShipped  = "shipped"
	OrderStatusFailed   = "failed"
	OrderStatusRefunded = "refunded"
)

// Order captures a placed order with its monetary totals frozen at
// creation time. Subtotal, Tax, Shipping and Total are write-once; only
// Status and the payment references change afterwards.
type Order struct {
	BaseModel
	OrderNumber     string      `gorm:"uniqueIndex" json:"order_number"`
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	OrderType       string      `json:"order_type"`
	Status          string      `gorm:"default:pending" json:"status"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	Shipping        float64     `json:"shipping"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	Notes           string      `json:"notes"`
	PaymentOrderID  string      `gorm:"index" json:"payment_order_id"`
	PaymentID       string      `json:"payment_id"`
	PlacedAt        time.Time   `json:"placed_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the unit price at order time; later price changes
// must not affect it.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}
