package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// PaymentIntent lifecycle. Transitions only move forward:
// CREATED -> VERIFIED -> CONSUMED, or CREATED -> FAILED.
const (
	IntentStatusCreated  = "CREATED"
	IntentStatusVerified = "VERIFIED"
	IntentStatusConsumed = "CONSUMED"
	IntentStatusFailed   = "FAILED"
)

// Orders exist only for verified charges, so this is the only payment status.
const PaymentStatusPaid = "PAID"

// Admin accounts must register with this email domain; regular accounts must not.
const AdminEmailDomain = "@admin.com"
