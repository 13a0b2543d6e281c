// Package order submits carts as orders, mirrors the remote order
// history, and tracks per-order status transitions.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/manify/cram-eats/internal/auth"
	"github.com/manify/cram-eats/internal/cart"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/tracking"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, deliveryAddress string) (domain.Order, error)
	FetchOrderHistory(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	GetOrderByID(orderID string) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (domain.Order, error)
	RefreshOrder(ctx context.Context, orderID string) (domain.Order, error)
	History() []domain.Order
}

type Options struct {
	DeliveryFee  domain.Cents
	PlaceTimeout time.Duration
}

type service struct {
	mu       sync.Mutex
	history  []domain.Order
	fetchGen uint64

	cart     *cart.Store
	client   Client
	auth     auth.Provider
	notifier Notifier
	logger   *zap.Logger
	tracer   trace.Tracer

	deliveryFee  domain.Cents
	placeTimeout time.Duration
	now          func() time.Time
}

func NewService(cartStore *cart.Store, client Client, authProvider auth.Provider, notifier Notifier, logger *zap.Logger, opts Options) Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if opts.PlaceTimeout <= 0 {
		opts.PlaceTimeout = 6 * time.Second
	}
	return &service{
		cart:         cartStore,
		client:       client,
		auth:         authProvider,
		notifier:     notifier,
		logger:       logger,
		tracer:       otel.Tracer("order_service"),
		deliveryFee:  opts.DeliveryFee,
		placeTimeout: opts.PlaceTimeout,
		now:          time.Now,
	}
}

// PlaceOrder snapshots the cart, submits it under an idempotency key and
// a bounded timeout, and only on confirmed acceptance clears the cart and
// prepends the order to history. On plain failure no state changes. On an
// ambiguous timeout the error is ErrUnknownOutcome and the caller must
// reconcile through FetchOrderHistory instead of retrying blindly.
func (s *service) PlaceOrder(ctx context.Context, deliveryAddress string) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	token, ok := s.auth.CurrentToken()
	if !ok {
		return domain.Order{}, fmt.Errorf("place order: %w", domain.ErrUnauthenticated)
	}
	user, ok := s.auth.CurrentUser()
	if !ok {
		return domain.Order{}, fmt.Errorf("place order: %w", domain.ErrUnauthenticated)
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}
	for _, l := range lines[1:] {
		if l.RestaurantID != lines[0].RestaurantID {
			return domain.Order{}, fmt.Errorf("%w: %w", ErrMixedRestaurants, domain.ErrValidation)
		}
	}

	now := s.now()
	order := domain.Order{
		ID:              "tmp-" + uuid.New().String(),
		UserID:          user.ID,
		RestaurantID:    lines[0].RestaurantID,
		RestaurantName:  lines[0].RestaurantName,
		Status:          domain.OrderStatusPending,
		Items:           snapshotItems(lines),
		DeliveryFee:     s.deliveryFee,
		DeliveryAddress: deliveryAddress,
		PlacedAt:        now,
		UpdatedAt:       now,
	}
	for _, l := range lines {
		order.Subtotal += l.LineTotal()
	}
	order.Total = order.Subtotal + order.DeliveryFee

	span.SetAttributes(
		attribute.Int64("user_id", user.ID),
		attribute.String("restaurant_id", order.RestaurantID),
		attribute.Int("items_count", len(order.Items)),
	)

	req := CreateOrderRequest{
		UserID:          user.ID,
		RestaurantID:    order.RestaurantID,
		TotalPrice:      order.Total.Dollars(),
		DeliveryAddress: deliveryAddress,
		Items:           requestItems(order.Items),
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.placeTimeout)
	defer cancel()

	rec, err := s.client.CreateOrder(submitCtx, token, uuid.New().String(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownOutcome) {
			mylogger.Warn(
				ctx,
				s.logger,
				"order submission outcome unknown, reconciliation required",
				zap.String("tmp_order_id", order.ID),
				zap.Error(err),
			)
			return domain.Order{}, err
		}
		mylogger.Warn(
			ctx,
			s.logger,
			"order submission failed",
			zap.Error(err),
		)
		return domain.Order{}, err
	}

	// The local snapshot stays authoritative for items and totals; only
	// the server-assigned identity and status are adopted.
	if rec.ID != "" {
		order.ID = rec.ID
	}
	if st := domain.OrderStatus(rec.Status); st.IsValid() {
		order.Status = st
	}

	s.cart.Clear(ctx)

	s.mu.Lock()
	s.history = append([]domain.Order{order}, s.history...)
	s.mu.Unlock()

	mylogger.Info(
		ctx,
		s.logger,
		"order placed",
		zap.String("order_id", order.ID),
		zap.String("restaurant_id", order.RestaurantID),
		zap.Int64("total_cents", int64(order.Total)),
	)

	s.notifier.OrderPlaced(ctx, order)
	return order, nil
}

// FetchOrderHistory replaces the local history with the remote state.
// Concurrent fetches race under a generation counter: only the newest
// request is allowed to write, so a slow stale response can never
// overwrite fresher data.
func (s *service) FetchOrderHistory(ctx context.Context, userID int64) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FetchOrderHistory")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	token, ok := s.auth.CurrentToken()
	if !ok {
		return nil, fmt.Errorf("fetch order history: %w", domain.ErrUnauthenticated)
	}

	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()

	var recs []OrderRecord
	op := func() error {
		var err error
		recs, err = s.client.OrdersByUser(ctx, token, userID, 1, 50)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrTransient) {
			return err
		}
		return backoff.Permanent(err)
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)); err != nil {
		mylogger.Warn(ctx, s.logger, "order history fetch failed", zap.Error(err))
		return nil, err
	}

	orders := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		o, err := toDomain(rec)
		if err != nil {
			mylogger.Warn(
				ctx,
				s.logger,
				"skipping untranslatable order record",
				zap.String("record_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		orders = append(orders, o)
	}

	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		mylogger.Info(ctx, s.logger, "discarding stale history response", zap.Uint64("generation", gen))
		return nil, ErrSuperseded
	}
	s.history = orders
	s.mu.Unlock()

	out := make([]domain.Order, len(orders))
	copy(out, orders)
	return out, nil
}

// UpdateOrderStatus applies a lifecycle transition. Re-applying the
// current status is an idempotent success; a transition whose target sits
// behind the stored status is rejected with ErrStaleTransition, which
// makes out-of-order event delivery safe. CANCELLED is reachable from any
// non-terminal status; terminal orders never change again.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if !status.IsValid() {
		return domain.Order{}, fmt.Errorf("unknown status %q: %w", status, domain.ErrValidation)
	}

	s.mu.Lock()
	idx := s.indexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}

	previous := s.history[idx].Status
	if status == previous {
		o := s.history[idx]
		s.mu.Unlock()
		return o, nil
	}
	if !previous.CanTransition(status) {
		o := s.history[idx]
		s.mu.Unlock()
		return o, fmt.Errorf("%s -> %s: %w", previous, status, ErrStaleTransition)
	}

	s.history[idx].Status = status
	s.history[idx].UpdatedAt = s.now()
	o := s.history[idx]
	s.mu.Unlock()

	mylogger.Info(
		ctx,
		s.logger,
		"order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	s.notifier.OrderStatusChanged(ctx, o, previous)
	return o, nil
}

// GetOrderByID is a pure local lookup.
func (s *service) GetOrderByID(orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(orderID)
	if idx < 0 {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return s.history[idx], nil
}

// CancelOrder is the user-facing cancel action, gated to the window where
// the client may still cancel.
func (s *service) CancelOrder(ctx context.Context, orderID string) (domain.Order, error) {
	o, err := s.GetOrderByID(orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !tracking.CanCancel(o.Status) {
		return o, fmt.Errorf("order %s is %s: %w", orderID, o.Status, ErrCancelNotAllowed)
	}
	return s.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled)
}

// RefreshOrder re-fetches a single order from the remote service and
// folds it into local history. This is the reconciliation path after an
// unknown-outcome submission and after a not-found lookup.
func (s *service) RefreshOrder(ctx context.Context, orderID string) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RefreshOrder")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID))

	token, ok := s.auth.CurrentToken()
	if !ok {
		return domain.Order{}, fmt.Errorf("refresh order: %w", domain.ErrUnauthenticated)
	}

	rec, err := s.client.OrderByID(ctx, token, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	remote, err := toDomain(*rec)
	if err != nil {
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(remote.ID)
	if idx < 0 {
		s.history = append([]domain.Order{remote}, s.history...)
		return remote, nil
	}

	// Keep the richer local snapshot, but let the remote status advance
	// it under the same monotonicity rule as any other transition.
	if s.history[idx].Status.CanTransition(remote.Status) && s.history[idx].Status != remote.Status {
		s.history[idx].Status = remote.Status
		s.history[idx].UpdatedAt = s.now()
	}
	if remote.EstimatedDelivery != nil {
		s.history[idx].EstimatedDelivery = remote.EstimatedDelivery
	}
	return s.history[idx], nil
}

// History returns a copy of the local order history, newest first.
func (s *service) History() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.history))
	copy(out, s.history)
	return out
}

func (s *service) indexLocked(orderID string) int {
	for i := range s.history {
		if s.history[i].ID == orderID {
			return i
		}
	}
	return -1
}

func snapshotItems(lines []domain.CartLine) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			SourceItemID: l.SourceItemID,
			Name:         l.Name,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
		})
	}
	return items
}

func requestItems(items []domain.OrderItem) []CreateOrderItem {
	out := make([]CreateOrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, CreateOrderItem{
			ItemID:   it.SourceItemID,
			Quantity: it.Quantity,
		})
	}
	return out
}
