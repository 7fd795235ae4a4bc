package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StubProvider is a no-op provider for development and tests; it hands out
// unique intent ids without any remote call.
type StubProvider struct{}

func (s *StubProvider) CreateIntent(ctx context.Context, amountCents int64, currency string) (*IntentRef, error) {
	return &IntentRef{
		ID:          fmt.Sprintf("stub_order_%s", uuid.NewString()),
		AmountCents: amountCents,
		Currency:    currency,
	}, nil
}
