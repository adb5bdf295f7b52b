package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/orders/client/userclient"
	"shop/internal/orders/domain"
	"shop/internal/orders/repository/item_repo"
	"shop/internal/orders/repository/order_repo"
	"shop/internal/platform/kafka"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrInvalidOrder  = errors.New("invalid order data")
)

// OrderCurrency is fixed for every order the saga emits.
const OrderCurrency = "USD"

// UserFetcher reads user profiles to decorate order responses. A lookup
// failure is never fatal; responses just carry a nil user.
type UserFetcher interface {
	GetUserByEmail(ctx context.Context, email string) (*userclient.User, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error)
	GetOrderByID(ctx context.Context, orderID int64) (*OrderResponse, error)
	GetOrdersByIDs(ctx context.Context, ids []int64) ([]*OrderResponse, error)
	GetOrdersByStatuses(ctx context.Context, statuses []string) ([]*OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, req *OrderUpdateRequest) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	HandlePaymentResult(ctx context.Context, event *events.PaymentProcessedEvent) error
}

type orderService struct {
	orderRepo     order_repo.OrderRepository
	itemRepo      item_repo.ItemRepository
	kafkaProducer kafka.Producer
	userClient    UserFetcher
	topic         string
	logger        *zap.Logger
}

func NewOrderService(
	orderRepo order_repo.OrderRepository,
	itemRepo item_repo.ItemRepository,
	kafkaProducer kafka.Producer,
	userClient UserFetcher,
	topic string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		kafkaProducer: kafkaProducer,
		userClient:    userClient,
		topic:         topic,
		logger:        logger,
	}
}

// CreateOrder persists the order first and publishes afterwards. If the
// publish fails the order stays PENDING with no retry; re-driving it is an
// operational concern, not handled here.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	if req.UserID <= 0 || req.UserEmail == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}

	itemIDs := make([]int64, 0, len(req.Items))
	for _, li := range req.Items {
		if li.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for item %d", ErrInvalidOrder, li.ItemID)
		}
		itemIDs = append(itemIDs, li.ItemID)
	}

	catalog, err := s.itemRepo.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		s.logger.Error("Failed to load items for order", zap.Error(err))
		return nil, errors.New("internal server error")
	}

	order := &domain.Order{
		UserID:    req.UserID,
		UserEmail: req.UserEmail,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	for _, li := range req.Items {
		item, ok := catalog[li.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %d", ErrItemNotFound, li.ItemID)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ItemID:   item.ID,
			ItemName: item.Name,
			Price:    item.Price,
			Quantity: li.Quantity,
		})
	}

	orderID, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err))
		return nil, errors.New("failed to create order")
	}

	event := events.OrderCreatedEvent{
		OrderID:  orderID,
		UserID:   order.UserID,
		Amount:   order.TotalAmount(),
		Currency: OrderCurrency,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal OrderCreatedEvent", zap.Int64("order_id", orderID), zap.Error(err))
		return s.enrichOrderWithUser(ctx, order), nil
	}

	if err := s.kafkaProducer.Produce(ctx, s.topic, strconv.FormatInt(orderID, 10), payload); err != nil {
		// Order is committed; the payment attempt is simply never triggered.
		s.logger.Error("Failed to publish OrderCreatedEvent, order stays PENDING",
			zap.Int64("order_id", orderID), zap.Error(err))
	} else {
		s.logger.Info("Order created and OrderCreatedEvent published",
			zap.Int64("order_id", orderID),
			zap.String("amount", event.Amount.String()))
	}

	return s.enrichOrderWithUser(ctx, order), nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID int64) (*OrderResponse, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("Failed to get order from repository", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, errors.New("internal server error")
	}
	return s.enrichOrderWithUser(ctx, order), nil
}

func (s *orderService) GetOrdersByIDs(ctx context.Context, ids []int64) ([]*OrderResponse, error) {
	if len(ids) == 0 {
		return []*OrderResponse{}, nil
	}
	orders, err := s.orderRepo.GetOrdersByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to get orders by ids", zap.Error(err))
		return nil, errors.New("internal server error")
	}
	return s.enrichOrdersWithUser(ctx, orders), nil
}

func (s *orderService) GetOrdersByStatuses(ctx context.Context, statuses []string) ([]*OrderResponse, error) {
	parsed := make([]domain.OrderStatus, 0, len(statuses))
	for _, raw := range statuses {
		if raw == "" {
			continue
		}
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, status)
	}
	if len(parsed) == 0 {
		return []*OrderResponse{}, nil
	}

	orders, err := s.orderRepo.GetOrdersByStatuses(ctx, parsed)
	if err != nil {
		s.logger.Error("Failed to get orders by statuses", zap.Error(err))
		return nil, errors.New("internal server error")
	}
	return s.enrichOrdersWithUser(ctx, orders), nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, req *OrderUpdateRequest) (*OrderResponse, error) {
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("Failed to update order status", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, errors.New("internal server error")
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("Failed to reload order after status update", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, errors.New("internal server error")
	}
	return s.enrichOrderWithUser(ctx, order), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := s.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		s.logger.Error("Failed to delete order", zap.Int64("order_id", orderID), zap.Error(err))
		return errors.New("internal server error")
	}
	return nil
}

// HandlePaymentResult applies a payment outcome to the referenced order.
// An event for an unknown order is dropped without error; last write wins,
// there is no version check against earlier results.
func (s *orderService) HandlePaymentResult(ctx context.Context, event *events.PaymentProcessedEvent) error {
	order, err := s.orderRepo.GetOrderByID(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Order not found for payment result, ignoring",
				zap.Int64("order_id", event.OrderID),
				zap.String("payment_status", event.Status))
			return nil
		}
		s.logger.Error("Failed to load order for payment result", zap.Int64("order_id", event.OrderID), zap.Error(err))
		return fmt.Errorf("failed to load order %d: %w", event.OrderID, err)
	}

	newStatus := domain.StatusForPaymentResult(event.Status)
	if order.Status == newStatus {
		s.logger.Info("Order status already matches payment result, no update needed",
			zap.Int64("order_id", order.ID),
			zap.String("status", string(newStatus)))
		return nil
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, newStatus); err != nil {
		s.logger.Error("Failed to apply payment result to order",
			zap.Int64("order_id", order.ID),
			zap.String("new_status", string(newStatus)),
			zap.Error(err))
		return fmt.Errorf("failed to update order %d status: %w", order.ID, err)
	}

	s.logger.Info("Order status updated from payment result",
		zap.Int64("order_id", order.ID),
		zap.String("old_status", string(order.Status)),
		zap.String("new_status", string(newStatus)),
		zap.Int64("payment_id", event.PaymentID))
	return nil
}

func (s *orderService) enrichOrderWithUser(ctx context.Context, order *domain.Order) *OrderResponse {
	resp := mapOrderToResponse(order)
	user, err := s.userClient.GetUserByEmail(ctx, order.UserEmail)
	if err != nil {
		s.logger.Warn("Failed to fetch user for order response",
			zap.String("user_email", order.UserEmail), zap.Error(err))
		return resp
	}
	resp.User = user
	return resp
}

func (s *orderService) enrichOrdersWithUser(ctx context.Context, orders []*domain.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = s.enrichOrderWithUser(ctx, order)
	}
	return responses
}

func mapOrderToResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, li := range order.Items {
		items[i] = OrderItemResponse{
			ItemID:   li.ItemID,
			ItemName: li.ItemName,
			Price:    li.Price,
			Quantity: li.Quantity,
		}
	}
	return &OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		UserEmail:   order.UserEmail,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount(),
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}
