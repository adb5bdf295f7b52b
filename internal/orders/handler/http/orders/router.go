package orders

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shop/internal/orders/app/orders"
)

func RegisterRoutes(r chi.Router, s orders.OrderService, l *zap.Logger) {
	handler := NewOrderHandler(s, l.With(zap.String("component", "OrderHTTPHandler")))

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.GetOrders)
		r.Get("/{orderID}", handler.GetOrder)
		r.Patch("/{orderID}", handler.UpdateOrder)
		r.Delete("/{orderID}", handler.DeleteOrder)
	})
}
