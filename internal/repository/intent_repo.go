package repository

import (
	"farmstore/internal/models"

	"gorm.io/gorm"
)

// IntentRepository owns payment_intents. Amount is never updated after
// Create; status moves only through TransitionStatus so every change is a
// compare-and-swap against the expected current status.
type IntentRepository struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

func (r *IntentRepository) Create(intent *models.PaymentIntent) error {
	return r.db.Create(intent).Error
}

func (r *IntentRepository) GetByID(id string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.Where("id = ?", id).First(&intent).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *IntentRepository) ListAll() ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	err := r.db.Order("created_at DESC").Find(&intents).Error
	return intents, err
}

// TransitionStatus flips the intent from one status to another in a single
// UPDATE guarded on the current status. Returns false if the row was not in
// the expected status (someone else transitioned first, or never was there).
func (r *IntentRepository) TransitionStatus(id, from, to string) (bool, error) {
	res := r.db.Model(&models.PaymentIntent{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
