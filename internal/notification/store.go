// Package notification holds the feed of user-facing lifecycle events.
// Entries are produced by the order store through the Notifier contract,
// never by direct coupling to order internals.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/storage"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.uber.org/zap"
)

// feedCap bounds retention; the oldest entries are dropped past it.
const feedCap = 200

type Store struct {
	mu      sync.Mutex
	feed    []domain.Notification
	storage storage.Store
	logger  *zap.Logger
	now     func() time.Time
}

func NewStore(ctx context.Context, st storage.Store, logger *zap.Logger) (*Store, error) {
	s := &Store{
		storage: st,
		logger:  logger,
		now:     time.Now,
	}

	data, ok, err := st.Load(ctx, storage.NotificationsKey)
	if err != nil {
		return nil, fmt.Errorf("load persisted notifications: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &s.feed); err != nil {
			mylogger.Warn(ctx, logger, "discarding unreadable persisted notifications", zap.Error(err))
			s.feed = nil
		}
	}

	return s, nil
}

// Notify appends a notification at the head of the feed.
func (s *Store) Notify(ctx context.Context, title, message string, category domain.NotificationCategory) domain.Notification {
	n := domain.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Category:  category,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.feed = append([]domain.Notification{n}, s.feed...)
	if len(s.feed) > feedCap {
		s.feed = s.feed[:feedCap]
	}
	s.persist(ctx)
	return n
}

// MarkRead is idempotent; unknown ids are a no-op.
func (s *Store) MarkRead(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.feed {
		if s.feed[i].ID == id {
			if !s.feed[i].Read {
				s.feed[i].Read = true
				s.persist(ctx)
			}
			return
		}
	}
}

func (s *Store) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.feed {
		if !s.feed[i].Read {
			s.feed[i].Read = true
			changed = true
		}
	}
	if changed {
		s.persist(ctx)
	}
}

func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.feed {
		if s.feed[i].ID == id {
			s.feed = append(s.feed[:i], s.feed[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, n := range s.feed {
		if !n.Read {
			count++
		}
	}
	return count
}

// Feed returns a copy of the feed, newest first.
func (s *Store) Feed() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Notification, len(s.feed))
	copy(out, s.feed)
	return out
}

// OrderPlaced implements order.Notifier.
func (s *Store) OrderPlaced(ctx context.Context, o domain.Order) {
	s.Notify(
		ctx,
		"Order placed",
		fmt.Sprintf("Your order at %s for %s was placed.", o.RestaurantName, o.Total),
		domain.NotificationCategoryOrder,
	)
}

// OrderStatusChanged implements order.Notifier.
func (s *Store) OrderStatusChanged(ctx context.Context, o domain.Order, _ domain.OrderStatus) {
	var message string
	switch o.Status {
	case domain.OrderStatusConfirmed:
		message = fmt.Sprintf("%s confirmed your order.", o.RestaurantName)
	case domain.OrderStatusPreparing:
		message = fmt.Sprintf("%s is preparing your order.", o.RestaurantName)
	case domain.OrderStatusReady:
		message = "Your order is ready for pickup."
	case domain.OrderStatusOutForDelivery:
		message = "Your order is out for delivery."
	case domain.OrderStatusDelivered:
		message = "Your order was delivered. Enjoy!"
	case domain.OrderStatusCancelled:
		message = fmt.Sprintf("Your order at %s was cancelled.", o.RestaurantName)
	default:
		message = fmt.Sprintf("Your order is now %s.", o.Status)
	}
	s.Notify(ctx, "Order update", message, domain.NotificationCategoryOrder)
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.feed)
	if err != nil {
		mylogger.Error(ctx, s.logger, "failed to marshal notifications", zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, storage.NotificationsKey, data); err != nil {
		mylogger.Warn(ctx, s.logger, "failed to persist notifications", zap.Error(err))
	}
}
