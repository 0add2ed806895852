package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/models"
)

// PaymentLedger stores payment records for status lookups and booking
// confirmation checks.
type PaymentLedger interface {
	Save(ctx context.Context, record models.PaymentRecord) error
	GetByPaymentID(ctx context.Context, paymentID string) (*models.PaymentRecord, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error)
}

// PaymentService simulates a payment gateway: a fixed processing delay
// followed by a probabilistic outcome. Outcomes are written to the ledger.
type PaymentService struct {
	ledger      PaymentLedger
	logger      *zap.Logger
	delay       time.Duration
	successRate float64
	randFloat   func() float64
}

// NewPaymentService builds service. ledger may be nil, in which case status
// lookups always report not found.
func NewPaymentService(ledger PaymentLedger, logger *zap.Logger, delay time.Duration, successRate float64) *PaymentService {
	if successRate <= 0 || successRate > 1 {
		successRate = 0.9
	}
	return &PaymentService{
		ledger:      ledger,
		logger:      logger,
		delay:       delay,
		successRate: successRate,
		randFloat:   rand.Float64,
	}
}

// ProcessPaymentInput carries the simulated payment request.
type ProcessPaymentInput struct {
	TransactionID string
	PaymentMethod string
	Amount        float64
	Currency      string
}

// ProcessPayment blocks for the configured delay and then succeeds with the
// configured probability. On success the completed record is returned; on the
// failure path a FAILED record is still written against the transaction and
// ErrPaymentDeclined is returned.
func (s *PaymentService) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*models.PaymentRecord, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	now := time.Now().UTC()

	if s.randFloat() >= s.successRate {
		s.record(ctx, models.PaymentRecord{
			TransactionID: input.TransactionID,
			PaymentMethod: input.PaymentMethod,
			Amount:        input.Amount,
			Currency:      input.Currency,
			Status:        models.PaymentFailed,
			PaymentDate:   now,
		})
		s.logger.Info("payment declined", zap.String("transaction_id", input.TransactionID))
		return nil, ErrPaymentDeclined
	}

	record := models.PaymentRecord{
		PaymentID:     newID("pay"),
		TransactionID: input.TransactionID,
		PaymentMethod: input.PaymentMethod,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        models.PaymentCompleted,
		PaymentDate:   now,
	}
	s.record(ctx, record)

	s.logger.Info("payment processed",
		zap.String("payment_id", record.PaymentID),
		zap.String("transaction_id", input.TransactionID),
		zap.Float64("amount", input.Amount),
	)
	return &record, nil
}

// GetPaymentStatus returns the ledger record for a payment id.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	if s.ledger == nil {
		return nil, ErrPaymentNotFound
	}
	record, err := s.ledger.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *PaymentService) record(ctx context.Context, record models.PaymentRecord) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Save(ctx, record); err != nil {
		s.logger.Warn("failed to store payment record",
			zap.String("transaction_id", record.TransactionID),
			zap.Error(err),
		)
	}
}
