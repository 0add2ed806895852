package service

import "errors"

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	ErrStationNotFound     = errors.New("station not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentDeclined     = errors.New("payment declined")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrInvalidTransition   = errors.New("invalid booking state transition")
)
