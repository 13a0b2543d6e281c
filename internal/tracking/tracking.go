// Package tracking derives the displayable order timeline from an order's
// current status. It holds no state; every read recomputes the projection,
// so the result depends only on the order passed in.
package tracking

import (
	"time"

	"github.com/manify/cram-eats/internal/domain"
)

type Step struct {
	Status      domain.OrderStatus `json:"status"`
	Description string             `json:"description"`
	Completed   bool               `json:"completed"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
}

var descriptions = map[domain.OrderStatus]string{
	domain.OrderStatusPending:        "Order placed, waiting for the restaurant",
	domain.OrderStatusConfirmed:      "Restaurant confirmed your order",
	domain.OrderStatusPreparing:      "Your food is being prepared",
	domain.OrderStatusReady:          "Order is ready for pickup",
	domain.OrderStatusOutForDelivery: "Driver is on the way",
	domain.OrderStatusDelivered:      "Order delivered",
	domain.OrderStatusCancelled:      "Order was cancelled",
}

// Steps projects the order onto the canonical timeline. A step is
// completed iff its position in the canonical sequence is at or before
// the current status. A cancelled order collapses to the initial PENDING
// step plus a single CANCELLED step.
func Steps(o domain.Order) []Step {
	if o.Status == domain.OrderStatusCancelled {
		placed := o.PlacedAt
		cancelled := o.UpdatedAt
		return []Step{
			{
				Status:      domain.OrderStatusPending,
				Description: descriptions[domain.OrderStatusPending],
				Completed:   true,
				CompletedAt: &placed,
			},
			{
				Status:      domain.OrderStatusCancelled,
				Description: descriptions[domain.OrderStatusCancelled],
				Completed:   true,
				CompletedAt: &cancelled,
			},
		}
	}

	current, ok := o.Status.Rank()
	if !ok {
		// Unknown status renders the full timeline with nothing done.
		current = -1
	}

	steps := make([]Step, 0, len(domain.StatusSequence))
	for i, status := range domain.StatusSequence {
		step := Step{
			Status:      status,
			Description: descriptions[status],
			Completed:   i <= current,
		}
		// Only two instants are known client-side: when the order
		// was placed and when it last changed.
		switch {
		case status == domain.OrderStatusPending && step.Completed:
			t := o.PlacedAt
			step.CompletedAt = &t
		case i == current:
			t := o.UpdatedAt
			step.CompletedAt = &t
		}
		steps = append(steps, step)
	}
	return steps
}

// ETA returns the expected delivery time. Terminal orders have none.
func ETA(o domain.Order) (time.Time, bool) {
	if o.Status.IsTerminal() {
		return time.Time{}, false
	}
	if o.EstimatedDelivery != nil {
		return *o.EstimatedDelivery, true
	}
	return o.PlacedAt.Add(45 * time.Minute), true
}

// CanCancel gates the user-facing cancel action: only a PENDING order may
// still be cancelled from the client.
func CanCancel(status domain.OrderStatus) bool {
	return status == domain.OrderStatusPending
}
