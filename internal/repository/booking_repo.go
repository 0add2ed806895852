package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evmarket/internal/models"
)

// BookingRepository persists bookings.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	booking_id, transaction_id, station_id, user_id, user_details,
	charging_parameters, quote, status, payment_status, payment_details,
	session_start, session_end, total_energy, final_cost, created_at, updated_at
`

// Create inserts a new booking and fills in the generated timestamps.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	userDetails, err := json.Marshal(booking.UserDetails)
	if err != nil {
		return fmt.Errorf("marshal user details: %w", err)
	}
	params, err := json.Marshal(booking.ChargingParameters)
	if err != nil {
		return fmt.Errorf("marshal charging parameters: %w", err)
	}
	quote, err := json.Marshal(booking.Quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}

	const query = `
		INSERT INTO bookings (booking_id, transaction_id, station_id, user_id, user_details, charging_parameters, quote, status, payment_status, final_cost, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		booking.BookingID,
		booking.TransactionID,
		booking.StationID,
		booking.UserID,
		userDetails,
		params,
		quote,
		booking.Status,
		booking.PaymentStatus,
		booking.FinalCost,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

// GetByID returns a booking by booking id. sql.ErrNoRows when absent.
func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
}

// GetByTransactionID returns a booking by its transaction correlation handle.
func (r *BookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE transaction_id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, transactionID))
}

// UpdateStatus persists a lifecycle transition together with the payment
// outcome attached to it.
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	var details []byte
	if booking.PaymentDetails != nil {
		var err error
		details, err = json.Marshal(booking.PaymentDetails)
		if err != nil {
			return fmt.Errorf("marshal payment details: %w", err)
		}
	}

	const query = `
		UPDATE bookings
		SET status = $2, payment_status = $3, payment_details = COALESCE($4, payment_details), updated_at = NOW()
		WHERE booking_id = $1
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		booking.BookingID,
		booking.Status,
		booking.PaymentStatus,
		details,
	).Scan(&booking.UpdatedAt)
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		booking     models.Booking
		userID      sql.NullString
		userDetails []byte
		params      []byte
		quote       []byte
		payment     []byte
	)
	if err := row.Scan(
		&booking.BookingID,
		&booking.TransactionID,
		&booking.StationID,
		&userID,
		&userDetails,
		&params,
		&quote,
		&booking.Status,
		&booking.PaymentStatus,
		&payment,
		&booking.SessionStart,
		&booking.SessionEnd,
		&booking.TotalEnergy,
		&booking.FinalCost,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	booking.UserID = userID.String

	if len(userDetails) > 0 {
		if err := json.Unmarshal(userDetails, &booking.UserDetails); err != nil {
			return nil, fmt.Errorf("decode booking %s user details: %w", booking.BookingID, err)
		}
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &booking.ChargingParameters); err != nil {
			return nil, fmt.Errorf("decode booking %s charging parameters: %w", booking.BookingID, err)
		}
	}
	if len(quote) > 0 {
		if err := json.Unmarshal(quote, &booking.Quote); err != nil {
			return nil, fmt.Errorf("decode booking %s quote: %w", booking.BookingID, err)
		}
	}
	if len(payment) > 0 {
		booking.PaymentDetails = &models.PaymentDetails{}
		if err := json.Unmarshal(payment, booking.PaymentDetails); err != nil {
			return nil, fmt.Errorf("decode booking %s payment details: %w", booking.BookingID, err)
		}
	}
	return &booking, nil
}
