package models

import "time"

// PaymentRecord is a ledger entry produced by the payment simulator. Records
// are kept keyed by payment id and transaction id so booking confirmation can
// verify that a payment actually completed.
type PaymentRecord struct {
	PaymentID     string    `json:"paymentId"`
	TransactionID string    `json:"transactionId"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"paymentDate"`
}
