package gateway

import (
	"context"
	"errors"
)

// ErrUnavailable marks a failure of the remote call itself (network error,
// timeout, gateway 5xx). Retriable, but never proof that no charge exists on
// the gateway side.
var ErrUnavailable = errors.New("payment gateway unavailable")

// IntentRef is the gateway's record of a freshly opened intent.
type IntentRef struct {
	ID          string
	AmountCents int64
	Currency    string
}

type Provider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (*IntentRef, error)
}
