package models

import (
	"time"

	"gorm.io/gorm"
)

// Address is a stored address-book entry. Orders never reference these rows;
// they keep their own snapshot so later edits cannot rewrite history.
type Address struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Street     string         `gorm:"size:255" json:"street"`
	City       string         `gorm:"size:120" json:"city"`
	State      string         `gorm:"size:120" json:"state"`
	PostalCode string         `gorm:"size:20" json:"postal_code"`
	Country    string         `gorm:"size:120" json:"country"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
