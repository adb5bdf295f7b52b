package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shop/internal/orders/app/orders"
	"shop/internal/orders/domain"
)

type OrderHandler struct {
	service orders.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(s orders.OrderService, l *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, logger: l}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for CreateOrder", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidOrder):
			h.logger.Warn("Bad request for CreateOrder", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, orders.ErrItemNotFound):
			h.logger.Warn("Unknown item in CreateOrder", zap.Error(err))
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("Error creating order", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	res, err := h.service.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			h.logger.Info("Order not found", zap.Int64("order_id", orderID))
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Error getting order", zap.Int64("order_id", orderID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// GetOrders serves both the ids and the statuses filter; exactly one of the
// two query params is expected.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	idsParam := r.URL.Query().Get("ids")
	statusesParam := r.URL.Query().Get("statuses")

	var (
		res []*orders.OrderResponse
		err error
	)
	switch {
	case idsParam != "":
		var ids []int64
		for _, raw := range strings.Split(idsParam, ",") {
			id, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if parseErr != nil {
				http.Error(w, "Invalid order ID in ids filter", http.StatusBadRequest)
				return
			}
			ids = append(ids, id)
		}
		res, err = h.service.GetOrdersByIDs(r.Context(), ids)
	case statusesParam != "":
		res, err = h.service.GetOrdersByStatuses(r.Context(), strings.Split(statusesParam, ","))
	default:
		http.Error(w, "Either ids or statuses filter is required", http.StatusBadRequest)
		return
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrderStatus) {
			h.logger.Warn("Invalid status filter", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Error listing orders", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req orders.OrderUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for UpdateOrder", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.UpdateOrderStatus(r.Context(), orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOrderStatus):
			h.logger.Warn("Invalid status in UpdateOrder", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, orders.ErrOrderNotFound):
			http.Error(w, "Order not found", http.StatusNotFound)
		default:
			h.logger.Error("Error updating order", zap.Int64("order_id", orderID), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Error deleting order", zap.Int64("order_id", orderID), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) orderIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "orderID")
	orderID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || orderID <= 0 {
		h.logger.Warn("Invalid order ID in request", zap.String("order_id", idStr))
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return 0, false
	}
	return orderID, true
}
