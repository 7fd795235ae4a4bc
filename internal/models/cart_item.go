package models

import (
	"time"
)

// CartItem rows are hard-deleted on removal; a soft delete would collide
// with the unique (user, product) index when the product is re-added.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_cart_user_product,unique" json:"user_id"`
	ProductID uint      `gorm:"not null;index:idx_cart_user_product,unique" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
