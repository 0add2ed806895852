package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"evmarket/internal/service"
)

var validate = validator.New()

// envelope is the uniform response shape: every payload is wrapped in
// {success, data?, message?}.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, status int, data interface{}, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

func writeMessage(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// decodeAndValidate parses the JSON body into dst and runs struct validation.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// respondError maps service errors onto the envelope: 404 for missing
// entities, 400 for declined payments and invalid transitions, 500 otherwise.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "Station not found")
	case errors.Is(err, service.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "Booking not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, service.ErrPaymentDeclined):
		writeError(w, http.StatusBadRequest, "Payment failed. Please try again.")
	case errors.Is(err, service.ErrPaymentNotCompleted):
		writeError(w, http.StatusBadRequest, "Payment has not completed")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, "Booking is not in a valid state for this operation")
	default:
		logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
