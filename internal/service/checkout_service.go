package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"farmstore/config"
	"farmstore/internal/domain"
	"farmstore/internal/models"
	"farmstore/internal/repository"
	"farmstore/pkg/gateway"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotCancellable: only CREATED intents may be cancelled. A verified
// intent is never silently discarded; a real charge may exist behind it.
var ErrNotCancellable = errors.New("intent cannot be cancelled")

// VerifiedPayment is the proof that the gateway authorized a payment for an
// intent. It exists only between verification and finalization and is never
// persisted on its own.
type VerifiedPayment struct {
	IntentID         string
	GatewayPaymentID string
	Signature        string
}

// CheckoutService drives the purchase finalization protocol: open an intent
// with the gateway, verify the client-relayed gateway response against the
// shared secret, and commit the order exactly once.
type CheckoutService struct {
	cfg      *config.Config
	provider gateway.Provider
	intents  *repository.IntentRepository
	orders   *repository.OrderRepository
	carts    *repository.CartRepository
	audit    *repository.AuditLogRepository
	pricing  *PricingService
}

func NewCheckoutService(
	cfg *config.Config,
	provider gateway.Provider,
	intents *repository.IntentRepository,
	orders *repository.OrderRepository,
	carts *repository.CartRepository,
	audit *repository.AuditLogRepository,
	pricing *PricingService,
) *CheckoutService {
	return &CheckoutService{
		cfg:      cfg,
		provider: provider,
		intents:  intents,
		orders:   orders,
		carts:    carts,
		audit:    audit,
		pricing:  pricing,
	}
}

// CartLines snapshots the user's cart. Later catalog edits do not reach into
// an order built from this snapshot.
func (s *CheckoutService) CartLines(userID uint) ([]CartLine, error) {
	items, err := s.carts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, CartLine{
			ProductID:      it.ProductID,
			Name:           it.Product.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.Product.PriceCents,
		})
	}
	return lines, nil
}

func (s *CheckoutService) QuoteCart(userID uint) (*Quote, []CartLine, error) {
	lines, err := s.CartLines(userID)
	if err != nil {
		return nil, nil, err
	}
	q, err := s.pricing.Quote(lines)
	if err != nil {
		return nil, nil, err
	}
	return q, lines, nil
}

// OpenIntent makes one remote call and, only if it succeeds, persists a
// CREATED intent keyed by the gateway-assigned id. A failed remote call
// leaves no row behind; the caller retries with a fresh call.
func (s *CheckoutService) OpenIntent(ctx context.Context, ownerID uint, amountCents int64) (*models.PaymentIntent, error) {
	if amountCents <= 0 {
		return nil, ValidationError("amount must be positive")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Gateway.RequestTimeout)
	defer cancel()
	ref, err := s.provider.CreateIntent(ctx, amountCents, s.cfg.Checkout.Currency)
	if err != nil {
		return nil, fmt.Errorf("open intent: %w", err)
	}
	intent := &models.PaymentIntent{
		ID:          ref.ID,
		OwnerID:     ownerID,
		AmountCents: amountCents,
		Currency:    s.cfg.Checkout.Currency,
		Status:      domain.IntentStatusCreated,
	}
	if err := s.intents.Create(intent); err != nil {
		// The gateway holds an order we failed to record; keep the id in the
		// log for reconciliation.
		log.Printf("[CHECKOUT] intent persist failed after gateway create, gateway_id=%s: %v", ref.ID, err)
		return nil, err
	}
	return intent, nil
}

// VerifyPayment is the trust boundary. Nothing the client relayed is acted
// upon unless the HMAC over (intent id, payment id) matches. A signature
// mismatch on a CREATED intent kills it permanently.
func (s *CheckoutService) VerifyPayment(ownerID uint, intentID, gatewayPaymentID, signature string) (*VerifiedPayment, error) {
	intent, err := s.intents.GetByID(intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[CHECKOUT] verify: unknown intent_id=%s", intentID)
			return nil, ErrVerificationFailed
		}
		return nil, err
	}
	if intent.OwnerID != ownerID {
		log.Printf("[CHECKOUT] verify: intent_id=%s owner mismatch (have %d, claimed by %d)", intentID, intent.OwnerID, ownerID)
		return nil, ErrVerificationFailed
	}
	if !s.signatureMatches(intentID, gatewayPaymentID, signature) {
		if intent.Status == domain.IntentStatusCreated {
			if _, err := s.intents.TransitionStatus(intentID, domain.IntentStatusCreated, domain.IntentStatusFailed); err != nil {
				return nil, err
			}
			s.auditIntent(intent.OwnerID, "verification_failed", intentID, "signature mismatch")
		}
		log.Printf("[CHECKOUT] verify: signature mismatch intent_id=%s", intentID)
		return nil, ErrVerificationFailed
	}
	switch intent.Status {
	case domain.IntentStatusCreated:
		ok, err := s.intents.TransitionStatus(intentID, domain.IntentStatusCreated, domain.IntentStatusVerified)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Raced with another transition; only FAILED is a problem.
			intent, err = s.intents.GetByID(intentID)
			if err != nil {
				return nil, err
			}
			if intent.Status == domain.IntentStatusFailed {
				return nil, ErrVerificationFailed
			}
		}
	case domain.IntentStatusVerified, domain.IntentStatusConsumed:
		// Retry after a crash or duplicate submit; signature already checked.
	case domain.IntentStatusFailed:
		return nil, ErrVerificationFailed
	}
	return &VerifiedPayment{
		IntentID:         intentID,
		GatewayPaymentID: gatewayPaymentID,
		Signature:        signature,
	}, nil
}

// Finalize commits the order exactly once. Address validation happens before
// any write. The claim on the intent and the order insert share one
// transaction; concurrent calls serialize there, and the losers get the
// prior order back with created=false.
func (s *CheckoutService) Finalize(vp *VerifiedPayment, ownerID uint, addr models.Address, instructions string) (*models.Order, bool, error) {
	if err := validateAddress(addr); err != nil {
		return nil, false, err
	}
	intent, err := s.intents.GetByID(vp.IntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrVerificationFailed
		}
		return nil, false, err
	}
	if intent.Status == domain.IntentStatusConsumed {
		prior, err := s.orders.GetByIntentID(vp.IntentID)
		if err != nil {
			return nil, false, err
		}
		return prior, false, nil
	}
	lines, err := s.CartLines(ownerID)
	if err != nil {
		return nil, false, err
	}
	if len(lines) == 0 {
		return nil, false, ValidationError("cart is empty")
	}
	order := &models.Order{
		Number:               fmt.Sprintf("FF-%s", uuid.NewString()),
		OwnerID:              ownerID,
		Street:               addr.Street,
		City:                 addr.City,
		State:                addr.State,
		PostalCode:           addr.PostalCode,
		Country:              addr.Country,
		AmountChargedCents:   intent.AmountCents,
		PaymentIntentID:      vp.IntentID,
		PaymentStatus:        domain.PaymentStatusPaid,
		DeliveryInstructions: instructions,
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	result, created, err := s.orders.CreateForIntent(order)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAmountMismatch), errors.Is(err, gorm.ErrDuplicatedKey):
			s.auditIntent(ownerID, "integrity_error", vp.IntentID, err.Error())
			log.Printf("[CHECKOUT] INTEGRITY intent_id=%s: %v", vp.IntentID, err)
			return nil, false, fmt.Errorf("%w: %v", ErrIntegrity, err)
		case errors.Is(err, repository.ErrIntentNotClaimable):
			return nil, false, ErrVerificationFailed
		}
		return nil, false, err
	}
	if created {
		if err := s.carts.Clear(ownerID); err != nil {
			log.Printf("[CHECKOUT] cart clear failed user_id=%d: %v", ownerID, err)
		}
		s.auditIntent(ownerID, "order_finalized", vp.IntentID, fmt.Sprintf("order %s", result.Number))
	}
	return result, created, nil
}

// Cancel marks a CREATED intent FAILED. Anything past CREATED is refused.
func (s *CheckoutService) Cancel(ownerID uint, intentID string) error {
	intent, err := s.intents.GetByID(intentID)
	if err != nil {
		return err
	}
	if intent.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	ok, err := s.intents.TransitionStatus(intentID, domain.IntentStatusCreated, domain.IntentStatusFailed)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotCancellable
	}
	s.auditIntent(ownerID, "intent_cancelled", intentID, "")
	return nil
}

// FailFromGateway handles a gateway-reported payment failure (webhook). Only
// a CREATED intent moves to FAILED; later states are left for the client
// relay path or reconciliation.
func (s *CheckoutService) FailFromGateway(intentID, detail string) {
	ok, err := s.intents.TransitionStatus(intentID, domain.IntentStatusCreated, domain.IntentStatusFailed)
	if err != nil {
		log.Printf("[CHECKOUT] webhook fail transition intent_id=%s: %v", intentID, err)
		return
	}
	if ok {
		s.auditIntent(0, "gateway_payment_failed", intentID, detail)
	}
}

func (s *CheckoutService) signatureMatches(intentID, gatewayPaymentID, claimed string) bool {
	mac := hmac.New(sha256.New, []byte(s.cfg.Gateway.SharedSecret))
	fmt.Fprintf(mac, "%s|%s", intentID, gatewayPaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(claimed), []byte(expected))
}

func (s *CheckoutService) auditIntent(userID uint, action, intentID, metadata string) {
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "payment_intent",
		ResourceID: intentID,
		Metadata:   metadata,
	}
	if userID != 0 {
		entry.UserID = &userID
	}
	if err := s.audit.Create(entry); err != nil {
		log.Printf("[CHECKOUT] audit write failed action=%s intent_id=%s: %v", action, intentID, err)
	}
}

func validateAddress(a models.Address) error {
	if a.Street == "" || a.City == "" || a.PostalCode == "" {
		return ValidationError("address requires street, city and postal code")
	}
	return nil
}
