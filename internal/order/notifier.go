package order

import (
	"context"

	"github.com/manify/cram-eats/internal/domain"
)

// Notifier receives order lifecycle events. The notification store
// implements this; the order store never touches the feed directly.
type Notifier interface {
	OrderPlaced(ctx context.Context, o domain.Order)
	OrderStatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus)
}

type NopNotifier struct{}

func (NopNotifier) OrderPlaced(context.Context, domain.Order)                            {}
func (NopNotifier) OrderStatusChanged(context.Context, domain.Order, domain.OrderStatus) {}
