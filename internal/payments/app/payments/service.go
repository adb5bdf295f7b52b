package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/payments/domain"
	"shop/internal/payments/repository/payments_repo"
	"shop/internal/platform/kafka"
)

var ErrInvalidRequest = errors.New("invalid request")

// SupportedCurrencies lists the currencies payments can be settled in.
var SupportedCurrencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"RUB": {},
}

// NumberFetcher draws the random number that decides a payment's fate.
type NumberFetcher interface {
	FetchNumber(ctx context.Context) (int64, error)
}

type PaymentService interface {
	// ProcessOrderCreated settles the payment for a freshly created order
	// and publishes the result.
	ProcessOrderCreated(ctx context.Context, event *events.OrderCreatedEvent) error

	GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]*PaymentResponse, error)
	GetPaymentsByUserID(ctx context.Context, userID int64) ([]*PaymentResponse, error)
	GetPaymentsByStatuses(ctx context.Context, statuses []string) ([]*PaymentResponse, error)
	GetTotalSum(ctx context.Context, start, end time.Time, currency string) (*TotalSumResponse, error)
}

type paymentService struct {
	repo          payments_repo.PaymentRepository
	numberFetcher NumberFetcher
	producer      kafka.Producer
	resultTopic   string
	logger        *zap.Logger
}

func NewPaymentService(
	repo payments_repo.PaymentRepository,
	numberFetcher NumberFetcher,
	producer kafka.Producer,
	resultTopic string,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:          repo,
		numberFetcher: numberFetcher,
		producer:      producer,
		resultTopic:   resultTopic,
		logger:        logger.With(zap.String("component", "PaymentService")),
	}
}

func (s *paymentService) ProcessOrderCreated(ctx context.Context, event *events.OrderCreatedEvent) error {
	number, err := s.numberFetcher.FetchNumber(ctx)
	if err != nil {
		s.logger.Warn("Random number fetch failed, payment fails closed",
			zap.Int64("order_id", event.OrderID), zap.Error(err))
	}
	status := domain.ClassifyOutcome(number, err)

	payment := &domain.Payment{
		OrderID:   event.OrderID,
		UserID:    event.UserID,
		Amount:    event.Amount,
		Currency:  event.Currency,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	paymentID, err := s.repo.Create(ctx, payment)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			s.logger.Info("Payment for order already processed, skipping",
				zap.Int64("order_id", event.OrderID))
			return nil
		}
		return fmt.Errorf("failed to persist payment for order %d: %w", event.OrderID, err)
	}

	s.logger.Info("Payment processed",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("payment_id", paymentID),
		zap.Int64("number", number),
		zap.String("status", string(status)))

	resultEvent := events.PaymentProcessedEvent{
		OrderID:   event.OrderID,
		PaymentID: paymentID,
		Status:    string(status),
	}
	value, err := json.Marshal(resultEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal PaymentProcessedEvent: %w", err)
	}

	key := strconv.FormatInt(event.OrderID, 10)
	if err := s.producer.Produce(ctx, s.resultTopic, key, value); err != nil {
		// The payment row is committed; without a retry path the order
		// stays PENDING until reconciled by hand.
		return fmt.Errorf("failed to publish payment result for order %d: %w", event.OrderID, err)
	}
	return nil
}

func (s *paymentService) GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]*PaymentResponse, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidRequest)
	}
	payments, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toResponses(payments), nil
}

func (s *paymentService) GetPaymentsByUserID(ctx context.Context, userID int64) ([]*PaymentResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidRequest)
	}
	payments, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(payments), nil
}

func (s *paymentService) GetPaymentsByStatuses(ctx context.Context, statuses []string) ([]*PaymentResponse, error) {
	parsed := make([]domain.PaymentStatus, 0, len(statuses))
	for _, raw := range statuses {
		status, err := domain.ParsePaymentStatus(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, status)
	}

	payments, err := s.repo.GetByStatuses(ctx, parsed)
	if err != nil {
		return nil, err
	}
	return toResponses(payments), nil
}

func (s *paymentService) GetTotalSum(ctx context.Context, start, end time.Time, currency string) (*TotalSumResponse, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidRequest)
	}
	if _, ok := SupportedCurrencies[currency]; !ok {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, currency)
	}

	total, err := s.repo.TotalSum(ctx, start, end, currency)
	if err != nil {
		return nil, err
	}
	return &TotalSumResponse{
		Total:    total,
		Currency: currency,
		Start:    start,
		End:      end,
	}, nil
}

func toResponses(payments []*domain.Payment) []*PaymentResponse {
	responses := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, &PaymentResponse{
			ID:        p.ID,
			OrderID:   p.OrderID,
			UserID:    p.UserID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt,
		})
	}
	return responses
}
