package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionForward(t *testing.T) {
	for i, from := range StatusSequence {
		for j, to := range StatusSequence {
			got := from.CanTransition(to)
			switch {
			case i == j:
				require.True(t, got, "%s -> %s (idempotent)", from, to)
			case from == OrderStatusDelivered:
				require.False(t, got, "%s is terminal", from)
			case j > i:
				require.True(t, got, "%s -> %s", from, to)
			default:
				require.False(t, got, "%s -> %s must not regress", from, to)
			}
		}
	}
}

func TestCancelReachableFromNonTerminalOnly(t *testing.T) {
	for _, from := range StatusSequence {
		want := from != OrderStatusDelivered
		require.Equal(t, want, from.CanTransition(OrderStatusCancelled), "from %s", from)
	}
	require.True(t, OrderStatusCancelled.CanTransition(OrderStatusCancelled), "idempotent re-apply")
	require.False(t, OrderStatusCancelled.CanTransition(OrderStatusPending))
	require.False(t, OrderStatusCancelled.CanTransition(OrderStatusDelivered))
}

func TestUnknownStatus(t *testing.T) {
	bogus := OrderStatus("TELEPORTING")
	require.False(t, bogus.IsValid())
	require.False(t, OrderStatusPending.CanTransition(bogus))

	_, ok := bogus.Rank()
	require.False(t, ok)
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, OrderStatusDelivered.IsTerminal())
	require.True(t, OrderStatusCancelled.IsTerminal())
	require.False(t, OrderStatusOutForDelivery.IsTerminal())
}
