package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shop/internal/events"
	"shop/internal/payments/app/payments"
	kafka_infra "shop/internal/platform/kafka"
)

// OrderCreatedMessageHandler consumes order-created events. Errors are logged
// and the message is committed anyway; redelivery after a crash is handled by
// the unique constraint on payments.order_id.
func OrderCreatedMessageHandler(paymentService payments.PaymentService, logger *zap.Logger) kafka_infra.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal OrderCreatedEvent",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			return nil
		}

		logger.Info("Received order created event",
			zap.Int64("order_id", event.OrderID),
			zap.Int64("user_id", event.UserID),
			zap.String("key", string(msg.Key)))

		if err := paymentService.ProcessOrderCreated(ctx, &event); err != nil {
			logger.Error("Failed to process order created event, dropping message",
				zap.Int64("order_id", event.OrderID),
				zap.Error(err))
		}
		return nil
	}
}
