package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/orders/app/orders"
	kafka_infra "shop/internal/platform/kafka"
)

// PaymentResultMessageHandler consumes payment-result events. Errors are
// logged and the message is committed anyway: there is no retry or
// dead-letter path for this topic.
func PaymentResultMessageHandler(orderService orders.OrderService, logger *zap.Logger) kafka_infra.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.PaymentProcessedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal PaymentProcessedEvent",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			return nil
		}

		logger.Info("Received payment result",
			zap.Int64("order_id", event.OrderID),
			zap.Int64("payment_id", event.PaymentID),
			zap.String("status", event.Status),
			zap.String("key", string(msg.Key)))

		if err := orderService.HandlePaymentResult(ctx, &event); err != nil {
			logger.Error("Failed to apply payment result, dropping message",
				zap.Int64("order_id", event.OrderID),
				zap.Error(err))
		}
		return nil
	}
}
