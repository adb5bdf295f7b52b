package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/payments/domain"
)

type fakePaymentRepo struct {
	payments map[int64]*domain.Payment // keyed by order ID
	nextID   int64

	createErr error
	total     decimal.Decimal
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*domain.Payment), nextID: 1}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	if _, ok := r.payments[payment.OrderID]; ok {
		return 0, domain.ErrDuplicatePayment
	}
	id := r.nextID
	r.nextID++
	payment.ID = id
	r.payments[payment.OrderID] = payment
	return id, nil
}

func (r *fakePaymentRepo) GetByOrderID(_ context.Context, orderID int64) ([]*domain.Payment, error) {
	if p, ok := r.payments[orderID]; ok {
		return []*domain.Payment{p}, nil
	}
	return nil, nil
}

func (r *fakePaymentRepo) GetByUserID(_ context.Context, userID int64) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) GetByStatuses(_ context.Context, statuses []domain.PaymentStatus) ([]*domain.Payment, error) {
	var result []*domain.Payment
	for _, p := range r.payments {
		for _, s := range statuses {
			if p.Status == s {
				result = append(result, p)
			}
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) TotalSum(_ context.Context, _, _ time.Time, _ string) (decimal.Decimal, error) {
	return r.total, nil
}

type fakeNumberFetcher struct {
	number int64
	err    error
}

func (f *fakeNumberFetcher) FetchNumber(_ context.Context) (int64, error) {
	return f.number, f.err
}

type producedMessage struct {
	topic string
	key   string
	value []byte
}

type fakeProducer struct {
	messages []producedMessage
	err      error
}

func (p *fakeProducer) Produce(_ context.Context, topic, key string, message []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, producedMessage{topic: topic, key: key, value: message})
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func newTestService(repo *fakePaymentRepo, fetcher *fakeNumberFetcher, producer *fakeProducer) PaymentService {
	return NewPaymentService(repo, fetcher, producer, "payment-result-topic", zap.NewNop())
}

func orderCreated(orderID int64) *events.OrderCreatedEvent {
	return &events.OrderCreatedEvent{
		OrderID:  orderID,
		UserID:   7,
		Amount:   decimal.RequireFromString("20.00"),
		Currency: "USD",
	}
}

func TestProcessOrderCreatedEvenNumberSucceeds(t *testing.T) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{}
	svc := newTestService(repo, &fakeNumberFetcher{number: 4}, producer)

	err := svc.ProcessOrderCreated(context.Background(), orderCreated(1))
	require.NoError(t, err)

	payment := repo.payments[1]
	require.NotNil(t, payment)
	assert.Equal(t, domain.StatusSuccess, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("20.00")))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "payment-result-topic", msg.topic)
	assert.Equal(t, "1", msg.key)

	var event events.PaymentProcessedEvent
	require.NoError(t, json.Unmarshal(msg.value, &event))
	assert.Equal(t, int64(1), event.OrderID)
	assert.Equal(t, payment.ID, event.PaymentID)
	assert.Equal(t, "SUCCESS", event.Status)
}

func TestProcessOrderCreatedOddNumberFails(t *testing.T) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{}
	svc := newTestService(repo, &fakeNumberFetcher{number: 3}, producer)

	err := svc.ProcessOrderCreated(context.Background(), orderCreated(1))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, repo.payments[1].Status)

	require.Len(t, producer.messages, 1)
	var event events.PaymentProcessedEvent
	require.NoError(t, json.Unmarshal(producer.messages[0].value, &event))
	assert.Equal(t, "FAILED", event.Status)
}

// An unreachable oracle records a FAILED payment rather than dropping the
// order created event.
func TestProcessOrderCreatedOracleDownFailsClosed(t *testing.T) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{}
	svc := newTestService(repo, &fakeNumberFetcher{err: errors.New("timeout")}, producer)

	err := svc.ProcessOrderCreated(context.Background(), orderCreated(1))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, repo.payments[1].Status)
	require.Len(t, producer.messages, 1)
}

// Redelivery of an already settled order must not create a second payment or
// publish a second result.
func TestProcessOrderCreatedDuplicateIsSkipped(t *testing.T) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{}
	svc := newTestService(repo, &fakeNumberFetcher{number: 4}, producer)

	require.NoError(t, svc.ProcessOrderCreated(context.Background(), orderCreated(1)))
	require.NoError(t, svc.ProcessOrderCreated(context.Background(), orderCreated(1)))

	assert.Len(t, repo.payments, 1)
	assert.Len(t, producer.messages, 1)
}

func TestProcessOrderCreatedPublishFailureKeepsPayment(t *testing.T) {
	repo := newFakePaymentRepo()
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	svc := newTestService(repo, &fakeNumberFetcher{number: 4}, producer)

	err := svc.ProcessOrderCreated(context.Background(), orderCreated(1))

	assert.Error(t, err)
	assert.Len(t, repo.payments, 1)
}

func TestGetPaymentsByOrderIDValidation(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakeNumberFetcher{}, &fakeProducer{})

	_, err := svc.GetPaymentsByOrderID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.GetPaymentsByOrderID(context.Background(), -5)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetPaymentsByUserIDValidation(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakeNumberFetcher{}, &fakeProducer{})

	_, err := svc.GetPaymentsByUserID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetPaymentsByStatusesInvalid(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakeNumberFetcher{}, &fakeProducer{})

	_, err := svc.GetPaymentsByStatuses(context.Background(), []string{"SUCCESS", "NOPE"})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatus)
}

func TestGetTotalSum(t *testing.T) {
	repo := newFakePaymentRepo()
	repo.total = decimal.RequireFromString("100.50")
	svc := newTestService(repo, &fakeNumberFetcher{}, &fakeProducer{})

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	res, err := svc.GetTotalSum(context.Background(), start, end, "USD")
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, "USD", res.Currency)
}

func TestGetTotalSumValidation(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakeNumberFetcher{}, &fakeProducer{})

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.GetTotalSum(context.Background(), start, start.AddDate(0, 0, -1), "USD")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.GetTotalSum(context.Background(), start, start.AddDate(0, 1, 0), "GBP")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
