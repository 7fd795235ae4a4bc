package repository

import (
	"errors"

	"farmstore/internal/domain"
	"farmstore/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrIntentNotClaimable: the intent exists but is not VERIFIED and not
	// CONSUMED, so there is nothing to finalize (still CREATED, or FAILED).
	ErrIntentNotClaimable = errors.New("payment intent not claimable")
	// ErrAmountMismatch: the order's charged amount diverged from the stored
	// intent amount. Never auto-corrected; surfaced for reconciliation.
	ErrAmountMismatch = errors.New("order amount does not match intent amount")
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByID(id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetByIntentID(intentID string) (*models.Order, error) {
	var o models.Order
	err := r.db.Preload("Items").Where("payment_intent_id = ?", intentID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByOwner(ownerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("owner_id = ?", ownerID).Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("id DESC").Find(&orders).Error
	return orders, err
}

// CreateForIntent commits the order and consumes its payment intent in one
// transaction. The status flip VERIFIED->CONSUMED is a guarded UPDATE: of any
// number of concurrent calls for the same intent, exactly one sees a row
// affected and inserts the order; the rest come back with the prior order.
//
// Returns (order, true, nil) when this call created the order, and
// (prior, false, nil) when the intent was already consumed.
func (r *OrderRepository) CreateForIntent(o *models.Order) (*models.Order, bool, error) {
	var (
		result  *models.Order
		created bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var intent models.PaymentIntent
		if err := tx.Where("id = ?", o.PaymentIntentID).First(&intent).Error; err != nil {
			return err
		}
		if intent.Status == domain.IntentStatusConsumed {
			return r.loadPrior(tx, o.PaymentIntentID, &result)
		}
		if o.AmountChargedCents != intent.AmountCents {
			return ErrAmountMismatch
		}
		res := tx.Model(&models.PaymentIntent{}).
			Where("id = ? AND status = ?", o.PaymentIntentID, domain.IntentStatusVerified).
			Update("status", domain.IntentStatusConsumed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race, or the intent was never verified. Re-read to
			// tell the two apart.
			if err := tx.Where("id = ?", o.PaymentIntentID).First(&intent).Error; err != nil {
				return err
			}
			if intent.Status == domain.IntentStatusConsumed {
				return r.loadPrior(tx, o.PaymentIntentID, &result)
			}
			return ErrIntentNotClaimable
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		result = o
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *OrderRepository) loadPrior(tx *gorm.DB, intentID string, out **models.Order) error {
	var prior models.Order
	if err := tx.Preload("Items").Where("payment_intent_id = ?", intentID).First(&prior).Error; err != nil {
		return err
	}
	*out = &prior
	return nil
}
