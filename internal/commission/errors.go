package commission

import "errors"

var (
	ErrNotFound = errors.New("commission not found")

	// Payment validation errors. All are detected before any mutation:
	// when one is returned the commission is unchanged.
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrAmountExceedsBalance = errors.New("payment amount exceeds outstanding balance")
	ErrInvalidDate          = errors.New("payment date is in the future")

	// ErrUploadFailed signals that a receipt could not be stored. It is
	// non-fatal: the payment is still applied, without a receipt reference.
	ErrUploadFailed = errors.New("receipt upload failed")
)
