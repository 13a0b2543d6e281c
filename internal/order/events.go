package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/pkg/kafka"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.uber.org/zap"
)

// StatusEvent is the envelope delivered on the order-status topic.
type StatusEvent struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// StatusEventHandler feeds remote status events into the store. Stale or
// duplicate deliveries are absorbed by the monotonicity guard and must
// not be redelivered, so they are acknowledged as handled.
func StatusEventHandler(svc Service, logger *zap.Logger) kafka.HandlerFunc {
	return func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		var event StatusEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			mylogger.Warn(
				ctx,
				logger,
				"dropping unreadable status event",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return nil
		}

		_, err := svc.UpdateOrderStatus(ctx, event.OrderID, domain.OrderStatus(event.Status))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrStaleTransition):
			mylogger.Info(
				ctx,
				logger,
				"ignoring out-of-order status event",
				zap.String("order_id", event.OrderID),
				zap.String("status", event.Status),
			)
			return nil
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
			mylogger.Warn(
				ctx,
				logger,
				"dropping status event for unknown order or status",
				zap.String("order_id", event.OrderID),
				zap.String("status", event.Status),
				zap.Error(err),
			)
			return nil
		default:
			return err
		}
	}
}
