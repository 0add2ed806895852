package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"evmarket/internal/models"
)

// PaymentLedger keeps payment records produced by the simulator. Records are
// stored under both the payment id and the transaction id so status lookups
// and confirmation-side verification can each find them.
type PaymentLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPaymentLedger returns redis-backed ledger.
func NewPaymentLedger(client *redis.Client, ttl time.Duration) *PaymentLedger {
	return &PaymentLedger{client: client, ttl: ttl}
}

func paymentKey(paymentID string) string {
	return fmt.Sprintf("payments:id:%s", paymentID)
}

func transactionKey(transactionID string) string {
	return fmt.Sprintf("payments:txn:%s", transactionID)
}

// Save writes the record under both keys.
func (l *PaymentLedger) Save(ctx context.Context, record models.PaymentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if record.PaymentID != "" {
		if err := l.client.Set(ctx, paymentKey(record.PaymentID), data, l.ttl).Err(); err != nil {
			return err
		}
	}
	if record.TransactionID != "" {
		if err := l.client.Set(ctx, transactionKey(record.TransactionID), data, l.ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

// GetByPaymentID returns the record for a payment id. redis.Nil when absent.
func (l *PaymentLedger) GetByPaymentID(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	return l.get(ctx, paymentKey(paymentID))
}

// GetByTransactionID returns the record for a transaction id. redis.Nil when absent.
func (l *PaymentLedger) GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	return l.get(ctx, transactionKey(transactionID))
}

func (l *PaymentLedger) get(ctx context.Context, key string) (*models.PaymentRecord, error) {
	result, err := l.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var record models.PaymentRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
