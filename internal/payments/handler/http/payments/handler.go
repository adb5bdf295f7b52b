package payments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shop/internal/payments/app/payments"
	"shop/internal/payments/domain"
)

type PaymentHandler struct {
	service payments.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(s payments.PaymentService, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, logger: l}
}

func (h *PaymentHandler) GetPaymentsByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.idFromURL(w, r, "orderID")
	if !ok {
		return
	}

	res, err := h.service.GetPaymentsByOrderID(r.Context(), orderID)
	if err != nil {
		h.writeServiceError(w, err, "Error getting payments by order")
		return
	}
	h.writeJSON(w, res)
}

func (h *PaymentHandler) GetPaymentsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.idFromURL(w, r, "userID")
	if !ok {
		return
	}

	res, err := h.service.GetPaymentsByUserID(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "Error getting payments by user")
		return
	}
	h.writeJSON(w, res)
}

func (h *PaymentHandler) GetPaymentsByStatuses(w http.ResponseWriter, r *http.Request) {
	statusesParam := r.URL.Query().Get("statuses")
	if statusesParam == "" {
		http.Error(w, "statuses filter is required", http.StatusBadRequest)
		return
	}

	res, err := h.service.GetPaymentsByStatuses(r.Context(), strings.Split(statusesParam, ","))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPaymentStatus) {
			h.logger.Warn("Invalid status filter", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeServiceError(w, err, "Error getting payments by statuses")
		return
	}
	h.writeJSON(w, res)
}

func (h *PaymentHandler) GetTotalSum(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "Invalid start timestamp, expected RFC3339", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "Invalid end timestamp, expected RFC3339", http.StatusBadRequest)
		return
	}
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "USD"
	}

	res, err := h.service.GetTotalSum(r.Context(), start, end, currency)
	if err != nil {
		h.writeServiceError(w, err, "Error computing payment total")
		return
	}
	h.writeJSON(w, res)
}

func (h *PaymentHandler) idFromURL(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Warn("Invalid ID in request", zap.String(param, idStr))
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *PaymentHandler) writeServiceError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, payments.ErrInvalidRequest) {
		h.logger.Warn(msg, zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (h *PaymentHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
