package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/orders/client/userclient"
	"shop/internal/orders/domain"
)

type fakeOrderRepo struct {
	orders map[int64]*domain.Order
	nextID int64

	createErr error
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	id := r.nextID
	r.nextID++
	order.ID = id
	r.orders[id] = order
	return id, nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return order, nil
}

func (r *fakeOrderRepo) GetOrdersByIDs(_ context.Context, ids []int64) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, id := range ids {
		if order, ok := r.orders[id]; ok {
			result = append(result, order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) GetOrdersByStatuses(_ context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range r.orders {
		for _, s := range statuses {
			if order.Status == s {
				result = append(result, order)
			}
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	order, ok := r.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.orders, id)
	return nil
}

type fakeItemRepo struct {
	items map[int64]domain.Item
}

func (r *fakeItemRepo) GetItemsByIDs(_ context.Context, ids []int64) (map[int64]domain.Item, error) {
	result := make(map[int64]domain.Item)
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
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

type fakeUserClient struct {
	user *userclient.User
	err  error
}

func (c *fakeUserClient) GetUserByEmail(_ context.Context, _ string) (*userclient.User, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.user, nil
}

func newTestService(orderRepo *fakeOrderRepo, itemRepo *fakeItemRepo, producer *fakeProducer, users *fakeUserClient) OrderService {
	return NewOrderService(orderRepo, itemRepo, producer, users, "order-created-topic", zap.NewNop())
}

func catalogWithTwoItems() *fakeItemRepo {
	return &fakeItemRepo{items: map[int64]domain.Item{
		1: {ID: 1, Name: "Keyboard", Price: decimal.RequireFromString("5.00")},
		2: {ID: 2, Name: "Mouse", Price: decimal.RequireFromString("10.00")},
	}}
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	producer := &fakeProducer{}
	svc := newTestService(orderRepo, catalogWithTwoItems(), producer, &fakeUserClient{err: errors.New("down")})

	res, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:    7,
		UserEmail: "buyer@example.com",
		Items: []OrderItemRequest{
			{ItemID: 1, Quantity: 2},
			{ItemID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PENDING", res.Status)
	assert.True(t, res.TotalAmount.Equal(decimal.RequireFromString("20.00")), "got %s", res.TotalAmount)
	assert.Nil(t, res.User)

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "order-created-topic", msg.topic)
	assert.Equal(t, "1", msg.key)

	var event events.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(msg.value, &event))
	assert.Equal(t, int64(1), event.OrderID)
	assert.Equal(t, int64(7), event.UserID)
	assert.Equal(t, "USD", event.Currency)
	assert.True(t, event.Amount.Equal(decimal.RequireFromString("20.00")))
}

func TestCreateOrderUnknownItem(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	producer := &fakeProducer{}
	svc := newTestService(orderRepo, catalogWithTwoItems(), producer, &fakeUserClient{})

	_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:    7,
		UserEmail: "buyer@example.com",
		Items:     []OrderItemRequest{{ItemID: 99, Quantity: 1}},
	})

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, producer.messages)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	_, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{UserEmail: "a@b.c"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.CreateOrder(context.Background(), &CreateOrderRequest{UserID: 1, UserEmail: "a@b.c"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:    1,
		UserEmail: "a@b.c",
		Items:     []OrderItemRequest{{ItemID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

// A publish failure must not undo the order: it stays PENDING and the
// response is still returned.
func TestCreateOrderPublishFailureKeepsOrder(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	producer := &fakeProducer{err: errors.New("broker unavailable")}
	svc := newTestService(orderRepo, catalogWithTwoItems(), producer, &fakeUserClient{})

	res, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:    7,
		UserEmail: "buyer@example.com",
		Items:     []OrderItemRequest{{ItemID: 1, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "PENDING", res.Status)
	require.Len(t, orderRepo.orders, 1)
	assert.Equal(t, domain.OrderStatusPending, orderRepo.orders[1].Status)
}

func TestCreateOrderEnrichesUser(t *testing.T) {
	user := &userclient.User{ID: 7, Name: "Ann", Email: "buyer@example.com"}
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{user: user})

	res, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		UserID:    7,
		UserEmail: "buyer@example.com",
		Items:     []OrderItemRequest{{ItemID: 2, Quantity: 1}},
	})

	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "Ann", res.User.Name)
}

func TestHandlePaymentResult(t *testing.T) {
	tests := []struct {
		name          string
		paymentStatus string
		want          domain.OrderStatus
	}{
		{"success completes order", "SUCCESS", domain.OrderStatusCompleted},
		{"failure cancels order", "FAILED", domain.OrderStatusCancelled},
		{"unknown status cancels order", "SOMETHING_ELSE", domain.OrderStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := newFakeOrderRepo()
			orderRepo.orders[1] = &domain.Order{ID: 1, UserID: 7, Status: domain.OrderStatusPending}
			svc := newTestService(orderRepo, catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

			err := svc.HandlePaymentResult(context.Background(), &events.PaymentProcessedEvent{
				OrderID:   1,
				PaymentID: 11,
				Status:    tt.paymentStatus,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, orderRepo.orders[1].Status)
		})
	}
}

// An event referencing an unknown order is dropped, not retried.
func TestHandlePaymentResultUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	err := svc.HandlePaymentResult(context.Background(), &events.PaymentProcessedEvent{
		OrderID: 42,
		Status:  "SUCCESS",
	})

	assert.NoError(t, err)
}

func TestHandlePaymentResultIdempotentStatus(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	orderRepo.orders[1] = &domain.Order{ID: 1, Status: domain.OrderStatusCompleted}
	orderRepo.updateErr = errors.New("update must not be called")
	svc := newTestService(orderRepo, catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	err := svc.HandlePaymentResult(context.Background(), &events.PaymentProcessedEvent{
		OrderID: 1,
		Status:  "SUCCESS",
	})

	assert.NoError(t, err)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	_, err := svc.GetOrderByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrdersByStatusesInvalid(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	_, err := svc.GetOrdersByStatuses(context.Background(), []string{"PENDING", "NOT_A_STATUS"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)
}

func TestDeleteOrderNotFound(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), catalogWithTwoItems(), &fakeProducer{}, &fakeUserClient{})

	err := svc.DeleteOrder(context.Background(), 42)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
