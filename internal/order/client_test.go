package order

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manify/cram-eats/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zap.NewNop())
}

func TestCreateOrderSendsAuthAndIdempotencyKey(t *testing.T) {
	var gotAuth, gotIdemKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotIdemKey = r.Header.Get("Idempotency-Key")

		var req CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(7), req.UserID)
		require.Len(t, req.Items, 1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createOrderResponse{
			Success: true,
			Order:   &OrderRecord{ID: "ord-1", Status: "PENDING"},
		})
	})

	rec, err := c.CreateOrder(context.Background(), "tok", "idem-1", CreateOrderRequest{
		UserID:       7,
		RestaurantID: "rest-1",
		TotalPrice:   22.50,
		Items:        []CreateOrderItem{{ItemID: "item-x", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, "ord-1", rec.ID)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "idem-1", gotIdemKey)
}

func TestCreateOrderRejectedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(createOrderResponse{Success: false})
	})

	_, err := c.CreateOrder(context.Background(), "tok", "idem-1", CreateOrderRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthenticated},
		{http.StatusForbidden, domain.ErrUnauthenticated},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnprocessableEntity, domain.ErrValidation},
		{http.StatusInternalServerError, domain.ErrTransient},
		{http.StatusBadGateway, domain.ErrTransient},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		})

		_, err := c.OrderByID(context.Background(), "tok", "ord-1")
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestCreateOrderTimeoutIsUnknownOutcome(t *testing.T) {
	started := make(chan struct{}, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect
		// and cancels r.Context(); otherwise Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		started <- struct{}{}
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.CreateOrder(ctx, "tok", "idem-1", CreateOrderRequest{})
	require.ErrorIs(t, err, domain.ErrUnknownOutcome)
	require.NotErrorIs(t, err, domain.ErrTransient)
	<-started
}

func TestReadTimeoutIsTransient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.OrdersByUser(ctx, "tok", 7, 1, 50)
	require.ErrorIs(t, err, domain.ErrTransient)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.OrderByID(context.Background(), "tok", "ord-1")
		require.Error(t, err)
	}
	require.Equal(t, 5, hits)

	// The breaker is open now; the upstream must not be touched.
	_, err := c.OrderByID(context.Background(), "tok", "ord-1")
	require.ErrorIs(t, err, domain.ErrTransient)
	require.Equal(t, 5, hits)
}

func TestOrdersByUserParsesListResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/user/7", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orders": []OrderRecord{
				{ID: "ord-1", Status: "DELIVERED", CreatedAt: "2026-03-14T12:00:00Z"},
				{ID: "ord-2", Status: "PENDING", CreatedAt: "2026-03-15T12:00:00Z"},
			},
			"pagination": map[string]int{"page": 1, "limit": 50, "total": 2},
		})
	})

	recs, err := c.OrdersByUser(context.Background(), "tok", 7, 1, 50)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "ord-2", recs[1].ID)
}
