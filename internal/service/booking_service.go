package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/models"
)

// StationGetter resolves stations referenced by bookings.
type StationGetter interface {
	GetByID(ctx context.Context, stationID string) (*models.Station, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, booking *models.Booking) error
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

// PaymentVerifier looks up ledger records for confirmation-side checks.
type PaymentVerifier interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error)
}

// EventBroadcaster pushes lifecycle updates to connected clients.
type EventBroadcaster interface {
	BroadcastMessage(msgType string, data interface{})
}

const msgTypeBookingUpdate = "booking_update"

type bookingEvent struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// BookingService owns the booking lifecycle: quote issuance, confirmation
// after payment and cancellation.
type BookingService struct {
	stations StationGetter
	bookings BookingStore
	payments PaymentVerifier
	events   EventBroadcaster
	logger   *zap.Logger
}

// NewBookingService builds service. payments and events may be nil.
func NewBookingService(
	stations StationGetter,
	bookings BookingStore,
	payments PaymentVerifier,
	events EventBroadcaster,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		stations: stations,
		bookings: bookings,
		payments: payments,
		events:   events,
		logger:   logger,
	}
}

// CreateBookingInput carries the booking request.
type CreateBookingInput struct {
	StationID          string
	UserID             string
	UserDetails        models.UserDetails
	ChargingParameters models.ChargingParameters
}

// CreateBookingResult pairs the draft booking with the station snapshot.
type CreateBookingResult struct {
	Booking *models.Booking `json:"booking"`
	Station *models.Station `json:"station"`
}

// CreateBooking validates the station, computes the quote and persists a
// DRAFT booking.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	station, err := s.stations.GetByID(ctx, input.StationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	params := input.ChargingParameters
	if params.EnergyAmount <= 0 {
		params.EnergyAmount = defaultEnergyAmountKWh
	}

	quote := BuildQuote(params.EnergyAmount, station.Pricing.PricePerKwh, station.Pricing.Currency)

	userID := input.UserID
	if userID == "" {
		userID = input.UserDetails.Email
	}

	booking := &models.Booking{
		BookingID:          newID("book"),
		TransactionID:      newID("txn"),
		StationID:          station.StationID,
		UserID:             userID,
		UserDetails:        input.UserDetails,
		ChargingParameters: params,
		Quote:              quote,
		Status:             models.BookingDraft,
		PaymentStatus:      models.PaymentPending,
		FinalCost:          quote.Price.Value,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.BookingID),
		zap.String("station_id", station.StationID),
		zap.Float64("final_cost", booking.FinalCost),
	)
	s.broadcast(booking)

	return &CreateBookingResult{Booking: booking, Station: station}, nil
}

// ConfirmBooking transitions a booking to CONFIRMED once payment has
// completed. The supplied payment details must report a completed payment;
// when the ledger holds a record for the transaction it is cross-checked
// instead of trusting the caller outright. Re-confirming a CONFIRMED booking
// is a no-op.
func (s *BookingService) ConfirmBooking(ctx context.Context, transactionID string, details models.PaymentDetails) (*models.Booking, error) {
	booking, err := s.bookings.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.Status == models.BookingConfirmed {
		return booking, nil
	}

	if details.Status != models.PaymentCompleted {
		return nil, ErrPaymentNotCompleted
	}

	if s.payments != nil {
		record, err := s.payments.GetByTransactionID(ctx, transactionID)
		switch {
		case err == nil:
			if record.Status != models.PaymentCompleted {
				return nil, ErrPaymentNotCompleted
			}
			if details.PaymentID != "" && record.PaymentID != details.PaymentID {
				return nil, ErrPaymentNotCompleted
			}
		case errors.Is(err, redis.Nil):
			// no ledger record; fall back to the caller-supplied details
		default:
			s.logger.Warn("payment ledger lookup failed", zap.String("transaction_id", transactionID), zap.Error(err))
		}
	}

	if err := Transition(ctx, booking, EventConfirm); err != nil {
		return nil, err
	}
	booking.PaymentStatus = models.PaymentCompleted
	booking.PaymentDetails = &details

	if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", booking.BookingID),
		zap.String("transaction_id", transactionID),
	)
	s.broadcast(booking)

	return booking, nil
}

// CancelBooking transitions a booking to CANCELLED and marks the payment
// REFUNDED regardless of its prior state. Cancelling an already cancelled
// booking is a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.Status == models.BookingCancelled {
		return booking, nil
	}

	if err := Transition(ctx, booking, EventCancel); err != nil {
		return nil, err
	}
	// TODO: refunding a booking whose payment never completed is carried over
	// from the original flow; needs a product decision before changing.
	booking.PaymentStatus = models.PaymentRefunded

	if err := s.bookings.UpdateStatus(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", booking.BookingID))
	s.broadcast(booking)

	return booking, nil
}

// GetBooking returns a booking by id.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetUserBookings returns a user's bookings, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) broadcast(booking *models.Booking) {
	if s.events == nil {
		return
	}
	s.events.BroadcastMessage(msgTypeBookingUpdate, bookingEvent{
		BookingID:     booking.BookingID,
		TransactionID: booking.TransactionID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
	})
}
