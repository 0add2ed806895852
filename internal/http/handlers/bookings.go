package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evmarket/internal/models"
	"evmarket/internal/service"
)

// BookingsHandlers serves the booking lifecycle endpoints.
type BookingsHandlers struct {
	service *service.BookingService
	logger  *zap.Logger
}

// NewBookingsHandlers returns handler.
func NewBookingsHandlers(svc *service.BookingService, logger *zap.Logger) *BookingsHandlers {
	return &BookingsHandlers{service: svc, logger: logger}
}

type createBookingRequest struct {
	StationID   string `json:"stationId" validate:"required"`
	UserID      string `json:"userId"`
	UserDetails struct {
		Name        string `json:"name"`
		Email       string `json:"email" validate:"omitempty,email"`
		Phone       string `json:"phone"`
		VehicleType string `json:"vehicleType"`
	} `json:"userDetails"`
	ChargingParameters struct {
		EnergyAmount      float64 `json:"energyAmount" validate:"gte=0"`
		ConnectorType     string  `json:"connectorType"`
		MaxPower          float64 `json:"maxPower" validate:"gte=0"`
		EstimatedDuration float64 `json:"estimatedDuration" validate:"gte=0"`
	} `json:"chargingParameters"`
}

type createBookingResponse struct {
	Success       bool                         `json:"success"`
	Data          *service.CreateBookingResult `json:"data"`
	TransactionID string                       `json:"transactionId"`
	BookingID     string                       `json:"bookingId"`
}

// Create handles POST /api/bookings.
func (h *BookingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking request")
		return
	}

	result, err := h.service.CreateBooking(r.Context(), service.CreateBookingInput{
		StationID: req.StationID,
		UserID:    req.UserID,
		UserDetails: models.UserDetails{
			Name:        req.UserDetails.Name,
			Email:       req.UserDetails.Email,
			Phone:       req.UserDetails.Phone,
			VehicleType: req.UserDetails.VehicleType,
		},
		ChargingParameters: models.ChargingParameters{
			EnergyAmount:      req.ChargingParameters.EnergyAmount,
			ConnectorType:     req.ChargingParameters.ConnectorType,
			MaxPower:          req.ChargingParameters.MaxPower,
			EstimatedDuration: req.ChargingParameters.EstimatedDuration,
		},
	})
	if err != nil {
		respondError(w, h.logger, err, "Failed to create booking")
		return
	}

	writeJSON(w, http.StatusOK, createBookingResponse{
		Success:       true,
		Data:          result,
		TransactionID: result.Booking.TransactionID,
		BookingID:     result.Booking.BookingID,
	})
}

type confirmBookingRequest struct {
	TransactionID  string                `json:"transactionId" validate:"required"`
	PaymentDetails models.PaymentDetails `json:"paymentDetails"`
}

// Confirm handles POST /api/bookings/confirm.
func (h *BookingsHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid confirmation request")
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), req.TransactionID, req.PaymentDetails)
	if err != nil {
		respondError(w, h.logger, err, "Failed to confirm booking")
		return
	}

	writeMessage(w, http.StatusOK, map[string]*models.Booking{"booking": booking}, "Booking confirmed successfully")
}

// Cancel handles POST /api/bookings/{bookingId}/cancel.
func (h *BookingsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CancelBooking(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to cancel booking")
		return
	}

	writeMessage(w, http.StatusOK, map[string]*models.Booking{"booking": booking}, "Booking cancelled successfully")
}

// Get handles GET /api/bookings/{bookingId}.
func (h *BookingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), r.PathValue("bookingId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get booking")
		return
	}
	writeData(w, http.StatusOK, booking)
}

// ListByUser handles GET /api/bookings/user/{userId}.
func (h *BookingsHandlers) ListByUser(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetUserBookings(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get user bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeData(w, http.StatusOK, bookings)
}
