package models

import "time"

// Booking lifecycle states.
const (
	BookingDraft          = "DRAFT"
	BookingConfirmed      = "CONFIRMED"
	BookingActive         = "ACTIVE"
	BookingCompleted      = "COMPLETED"
	BookingCancelled      = "CANCELLED"
	BookingPaymentPending = "PAYMENT_PENDING"
)

// Payment states attached to a booking.
const (
	PaymentPending    = "PENDING"
	PaymentProcessing = "PROCESSING"
	PaymentCompleted  = "COMPLETED"
	PaymentFailed     = "FAILED"
	PaymentRefunded   = "REFUNDED"
)

// UserDetails is the contact snapshot embedded in a booking.
type UserDetails struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
}

// ChargingParameters describes the requested charging session.
type ChargingParameters struct {
	EnergyAmount      float64 `json:"energyAmount"`
	ConnectorType     string  `json:"connectorType,omitempty"`
	MaxPower          float64 `json:"maxPower,omitempty"`
	EstimatedDuration float64 `json:"estimatedDuration,omitempty"`
}

// Price is an amount plus currency.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// BreakupLine is a single labelled line of a quote.
type BreakupLine struct {
	Title string `json:"title"`
	Price Price  `json:"price"`
}

// Quote is the computed price breakdown attached to a booking.
// Invariant: Price.Value equals the sum of the breakup line values.
type Quote struct {
	Price   Price         `json:"price"`
	Breakup []BreakupLine `json:"breakup"`
}

// PaymentDetails records the payment outcome stored against a booking.
type PaymentDetails struct {
	PaymentID     string    `json:"paymentId,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Status        string    `json:"status,omitempty"`
	PaymentDate   time.Time `json:"paymentDate,omitempty"`
}

// Booking is a reservation of energy at a station. The transaction id is the
// correlation handle across quote issuance, payment and confirmation.
type Booking struct {
	BookingID          string             `json:"bookingId"`
	TransactionID      string             `json:"transactionId"`
	StationID          string             `json:"stationId"`
	UserID             string             `json:"userId,omitempty"`
	UserDetails        UserDetails        `json:"userDetails"`
	ChargingParameters ChargingParameters `json:"chargingParameters"`
	Quote              Quote              `json:"quote"`
	Status             string             `json:"status"`
	PaymentStatus      string             `json:"paymentStatus"`
	PaymentDetails     *PaymentDetails    `json:"paymentDetails,omitempty"`
	SessionStart       *time.Time         `json:"sessionStart,omitempty"`
	SessionEnd         *time.Time         `json:"sessionEnd,omitempty"`
	TotalEnergy        *float64           `json:"totalEnergy,omitempty"`
	FinalCost          float64            `json:"finalCost"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}
