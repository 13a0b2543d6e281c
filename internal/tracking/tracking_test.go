package tracking

import (
	"testing"
	"time"

	"github.com/manify/cram-eats/internal/domain"
	"github.com/stretchr/testify/require"
)

func testOrder(status domain.OrderStatus) domain.Order {
	placed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return domain.Order{
		ID:        "ord-1",
		Status:    status,
		PlacedAt:  placed,
		UpdatedAt: placed.Add(10 * time.Minute),
	}
}

func completedStatuses(steps []Step) []domain.OrderStatus {
	var out []domain.OrderStatus
	for _, s := range steps {
		if s.Completed {
			out = append(out, s.Status)
		}
	}
	return out
}

func TestStepsOutForDelivery(t *testing.T) {
	steps := Steps(testOrder(domain.OrderStatusOutForDelivery))

	require.Len(t, steps, len(domain.StatusSequence))
	require.Equal(t, []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
		domain.OrderStatusOutForDelivery,
	}, completedStatuses(steps))

	last := steps[len(steps)-1]
	require.Equal(t, domain.OrderStatusDelivered, last.Status)
	require.False(t, last.Completed)
	require.Nil(t, last.CompletedAt)
}

func TestStepsCancelledCollapses(t *testing.T) {
	steps := Steps(testOrder(domain.OrderStatusCancelled))

	require.Len(t, steps, 2)
	require.Equal(t, domain.OrderStatusPending, steps[0].Status)
	require.True(t, steps[0].Completed)
	require.Equal(t, domain.OrderStatusCancelled, steps[1].Status)
	require.True(t, steps[1].Completed)
	require.NotNil(t, steps[1].CompletedAt)
}

func TestStepsDeterministic(t *testing.T) {
	o := testOrder(domain.OrderStatusPreparing)

	first := Steps(o)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, Steps(o))
	}
}

func TestStepsTotalOverEnum(t *testing.T) {
	statuses := append([]domain.OrderStatus{}, domain.StatusSequence...)
	statuses = append(statuses, domain.OrderStatusCancelled)

	for _, status := range statuses {
		steps := Steps(testOrder(status))
		require.NotEmpty(t, steps, "status %s must project to steps", status)
		for _, step := range steps {
			require.NotEmpty(t, step.Description)
		}
	}
}

func TestETA(t *testing.T) {
	o := testOrder(domain.OrderStatusPreparing)

	eta, ok := ETA(o)
	require.True(t, ok)
	require.Equal(t, o.PlacedAt.Add(45*time.Minute), eta)

	explicit := o.PlacedAt.Add(30 * time.Minute)
	o.EstimatedDelivery = &explicit
	eta, ok = ETA(o)
	require.True(t, ok)
	require.Equal(t, explicit, eta)

	o.Status = domain.OrderStatusDelivered
	_, ok = ETA(o)
	require.False(t, ok)

	o.Status = domain.OrderStatusCancelled
	_, ok = ETA(o)
	require.False(t, ok)
}

func TestCanCancel(t *testing.T) {
	require.True(t, CanCancel(domain.OrderStatusPending))
	require.False(t, CanCancel(domain.OrderStatusConfirmed))
	require.False(t, CanCancel(domain.OrderStatusDelivered))
	require.False(t, CanCancel(domain.OrderStatusCancelled))
}
