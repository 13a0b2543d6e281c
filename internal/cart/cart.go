// Package cart maintains the working set of not-yet-submitted line items
// for the active session.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/manify/cram-eats/internal/catalog"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/storage"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.uber.org/zap"
)

// Store owns CartLine entities exclusively. All mutations run under one
// mutex so concurrent UI events cannot tear the line list, and each
// mutation is written through to durable storage under a fixed key.
type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	storage storage.Store
	logger  *zap.Logger
}

func NewStore(ctx context.Context, st storage.Store, logger *zap.Logger) (*Store, error) {
	s := &Store{
		storage: st,
		logger:  logger,
	}

	data, ok, err := st.Load(ctx, storage.CartKey)
	if err != nil {
		return nil, fmt.Errorf("load persisted cart: %w", err)
	}
	if ok {
		var lines []domain.CartLine
		if err := json.Unmarshal(data, &lines); err != nil {
			// A corrupt blob is not worth failing startup over;
			// start from an empty cart.
			mylogger.Warn(ctx, logger, "discarding unreadable persisted cart", zap.Error(err))
		} else {
			s.lines = sanitize(lines)
		}
	}

	return s, nil
}

// sanitize drops lines that violate the quantity invariant. Persisted
// state from older sessions is not trusted blindly.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity >= 1 {
			out = append(out, l)
		}
	}
	return out
}

// AddLine inserts the catalog item into the cart, coalescing repeated
// additions of the same item for the same restaurant into one line.
func (s *Store) AddLine(ctx context.Context, item catalog.Item, restaurant catalog.Restaurant) (domain.CartLine, error) {
	if !item.Available {
		return domain.CartLine{}, fmt.Errorf("%s: %w", item.ID, ErrItemUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].SameItem(item.ID, restaurant.ID) {
			s.lines[i].Quantity++
			s.persist(ctx)
			return s.lines[i], nil
		}
	}

	line := domain.CartLine{
		ID:             uuid.New().String(),
		SourceItemID:   item.ID,
		Name:           item.Name,
		UnitPrice:      item.UnitPrice,
		Quantity:       1,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		ImageURL:       item.ImageURL,
		Category:       item.Category,
	}
	s.lines = append(s.lines, line)
	s.persist(ctx)
	return line, nil
}

// RemoveLine deletes the line unconditionally. Absent lines are a no-op.
func (s *Store) RemoveLine(ctx context.Context, lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, lineID)
}

func (s *Store) removeLocked(ctx context.Context, lineID string) {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// SetQuantity overwrites the line's quantity. Anything at or below zero
// removes the line; a negative quantity is never stored.
func (s *Store) SetQuantity(ctx context.Context, lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, lineID)
		return
	}

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart. Called after a confirmed checkout.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	if err := s.storage.Delete(ctx, storage.CartKey); err != nil {
		mylogger.Warn(ctx, s.logger, "failed to clear persisted cart", zap.Error(err))
	}
}

// Lines returns a copy of the resident lines.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total recomputes the cart total from the source values on every call;
// no running total is ever accumulated.
func (s *Store) Total() domain.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total domain.Cents
	for _, l := range s.lines {
		total += l.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities, used for badge displays.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// persist writes the current line set through to storage. Persistence
// failures are logged, not surfaced: cart mutations are local-only total
// functions and must never fail visibly.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		mylogger.Error(ctx, s.logger, "failed to marshal cart", zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, storage.CartKey, data); err != nil {
		mylogger.Warn(ctx, s.logger, "failed to persist cart", zap.Error(err))
	}
}
