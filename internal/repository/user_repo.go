package repository

import (
	"farmstore/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Preload("Addresses").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) AddAddress(a *models.Address) error {
	return r.db.Create(a).Error
}

func (r *UserRepository) GetAddress(userID, addressID uint) (*models.Address, error) {
	var a models.Address
	err := r.db.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) ListAddresses(userID uint) ([]models.Address, error) {
	var addrs []models.Address
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&addrs).Error
	return addrs, err
}

func (r *UserRepository) UpdateAddress(a *models.Address) error {
	return r.db.Save(a).Error
}

func (r *UserRepository) DeleteAddress(userID, addressID uint) error {
	return r.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{}).Error
}
