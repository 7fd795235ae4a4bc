package repository

import (
	"errors"

	"farmstore/internal/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.Preload("Product").Where("user_id = ?", userID).Order("id").Find(&items).Error
	return items, err
}

// Upsert sets the quantity for (user, product), creating the row if absent.
func (r *CartRepository) Upsert(userID, productID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := r.db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := r.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) Remove(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
}

func (r *CartRepository) Clear(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
