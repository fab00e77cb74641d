package ledger

import "errors"

var (
	// ErrPaymentNotFound is returned when a payment id is unknown.
	ErrPaymentNotFound = errors.New("ledger: payment not found")
	// ErrNegativeAmount is returned when a payment amount is negative.
	ErrNegativeAmount = errors.New("ledger: negative amount")
	// ErrInvalidDate is returned when a supplied date string is not an
	// ISO-8601 date.
	ErrInvalidDate = errors.New("ledger: invalid date")
	// ErrEmptyVehicleID is returned when a payment has no vehicle id.
	ErrEmptyVehicleID = errors.New("ledger: empty vehicle id")
	// ErrPaymentCancelled is returned when mutating a cancelled payment.
	ErrPaymentCancelled = errors.New("ledger: payment already cancelled")
)
