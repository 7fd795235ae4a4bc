package models

import (
	"time"
)

// PaymentIntent is a pending charge opened with the payment gateway. The ID
// is the gateway-assigned order id. AmountCents is immutable after creation;
// only Status ever changes, and only forward (see domain.IntentStatus*).
type PaymentIntent struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Currency    string    `gorm:"size:3;not null" json:"currency"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}
