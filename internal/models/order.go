package models

import (
	"time"
)

// Order is written exactly once, at finalization. PaymentIntentID carries a
// unique index: it is the idempotency anchor that makes a second order for
// the same intent impossible at the storage layer. The address columns are a
// snapshot taken at finalization, not a reference into the address book.
type Order struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Number               string    `gorm:"uniqueIndex;size:64;not null" json:"number"`
	OwnerID              uint      `gorm:"not null;index" json:"owner_id"`
	Street               string    `gorm:"size:255" json:"street"`
	City                 string    `gorm:"size:120" json:"city"`
	State                string    `gorm:"size:120" json:"state"`
	PostalCode           string    `gorm:"size:20" json:"postal_code"`
	Country              string    `gorm:"size:120" json:"country"`
	AmountChargedCents   int64     `gorm:"not null" json:"amount_charged_cents"`
	PaymentIntentID      string    `gorm:"uniqueIndex;size:64;not null" json:"payment_intent_id"`
	PaymentStatus        string    `gorm:"size:20;not null" json:"payment_status"`
	DeliveryInstructions string    `gorm:"type:text" json:"delivery_instructions"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem keeps the unit price as of purchase time; catalog price changes
// do not touch past orders.
type OrderItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrderID        uint   `gorm:"not null;index" json:"order_id"`
	ProductID      uint   `gorm:"not null" json:"product_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Quantity       int    `gorm:"not null" json:"quantity"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
