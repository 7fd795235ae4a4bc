package service

import "errors"

var (
	// ErrVerificationFailed: signature or intent-state mismatch. Terminal for
	// that intent; the caller must open a new one.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrIntegrity: amount mismatch or duplicate order at commit time.
	// A correctness bug or storage anomaly, never auto-corrected.
	ErrIntegrity = errors.New("payment integrity violation")
)

// ValidationError is malformed caller input; fix and resubmit.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
