package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evmarket/internal/service"
)

// PaymentsHandlers serves the payment simulator endpoints.
type PaymentsHandlers struct {
	service *service.PaymentService
	logger  *zap.Logger
}

// NewPaymentsHandlers returns handler.
func NewPaymentsHandlers(svc *service.PaymentService, logger *zap.Logger) *PaymentsHandlers {
	return &PaymentsHandlers{service: svc, logger: logger}
}

type processPaymentRequest struct {
	TransactionID string  `json:"transactionId" validate:"required"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Currency      string  `json:"currency"`
}

// Process handles POST /api/payments/process.
func (h *PaymentsHandlers) Process(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment request")
		return
	}

	record, err := h.service.ProcessPayment(r.Context(), service.ProcessPaymentInput{
		TransactionID: req.TransactionID,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
		Currency:      req.Currency,
	})
	if err != nil {
		respondError(w, h.logger, err, "Payment processing failed")
		return
	}

	writeMessage(w, http.StatusOK, record, "Payment processed successfully")
}

// Status handles GET /api/payments/{paymentId}/status.
func (h *PaymentsHandlers) Status(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetPaymentStatus(r.Context(), r.PathValue("paymentId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get payment status")
		return
	}
	writeData(w, http.StatusOK, record)
}
