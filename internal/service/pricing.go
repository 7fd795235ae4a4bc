package service

import (
	"farmstore/config"
)

// CartLine is a snapshot of one cart row at checkout time.
type CartLine struct {
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type Quote struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// PricingService derives the chargeable total from cart lines. Pure integer
// arithmetic in the smallest currency unit; the only rounding happens once,
// round-half-up, when the percentage discount is taken.
type PricingService struct {
	cfg *config.CheckoutConfig
}

func NewPricingService(cfg *config.CheckoutConfig) *PricingService {
	return &PricingService{cfg: cfg}
}

func (s *PricingService) Quote(lines []CartLine) (*Quote, error) {
	var subtotal int64
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ValidationError("line quantity must be positive")
		}
		if l.UnitPriceCents < 0 {
			return nil, ValidationError("line unit price must not be negative")
		}
		subtotal += int64(l.Quantity) * l.UnitPriceCents
	}
	q := &Quote{SubtotalCents: subtotal}
	if subtotal <= s.cfg.FreeShippingMinCents {
		q.ShippingCents = s.cfg.ShippingFeeCents
	}
	if subtotal > s.cfg.DiscountMinCents {
		// round-half-up on the percentage, applied once to the subtotal
		q.DiscountCents = (subtotal*s.cfg.DiscountPercent + 50) / 100
	}
	q.TotalCents = q.SubtotalCents + q.ShippingCents - q.DiscountCents
	return q, nil
}
