package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/manify/cram-eats/internal/catalog"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	restaurantR = catalog.Restaurant{ID: "rest-1", Name: "Mama's Pizza"}

	itemX = catalog.Item{
		ID:        "item-x",
		Name:      "Margherita",
		UnitPrice: 1000,
		Available: true,
	}
	itemY = catalog.Item{
		ID:        "item-y",
		Name:      "Tiramisu",
		UnitPrice: 550,
		Available: true,
	}
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	s, err := NewStore(context.Background(), mem, zap.NewNop())
	require.NoError(t, err)
	return s, mem
}

func TestAddLineCoalescesSameItem(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)
	second, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, domain.Cents(2000), s.Total())
}

func TestAddLineSameItemDifferentRestaurant(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)
	_, err = s.AddLine(ctx, itemX, catalog.Restaurant{ID: "rest-2", Name: "Other"})
	require.NoError(t, err)

	require.Len(t, s.Lines(), 2)
}

func TestAddLineRejectsUnavailableItem(t *testing.T) {
	s, _ := newTestStore(t)

	unavailable := itemX
	unavailable.Available = false

	_, err := s.AddLine(context.Background(), unavailable, restaurantR)
	require.ErrorIs(t, err, ErrItemUnavailable)
	require.Empty(t, s.Lines())
}

func TestQuantityNeverBelowOne(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	line, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)

	s.SetQuantity(ctx, line.ID, 5)
	require.Equal(t, 5, s.Lines()[0].Quantity)

	s.SetQuantity(ctx, line.ID, 0)
	require.Empty(t, s.Lines())

	line, err = s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)
	s.SetQuantity(ctx, line.ID, -3)
	require.Empty(t, s.Lines())

	for _, l := range s.Lines() {
		require.GreaterOrEqual(t, l.Quantity, 1)
	}
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)

	s.RemoveLine(ctx, "no-such-line")
	require.Len(t, s.Lines(), 1)
}

func TestTotalRecomputedFromSource(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	line, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)
	_, err = s.AddLine(ctx, itemY, restaurantR)
	require.NoError(t, err)

	// Repeated reads and mutations must not drift the total.
	for i := 0; i < 10; i++ {
		require.Equal(t, domain.Cents(1550), s.Total())
	}

	s.SetQuantity(ctx, line.ID, 3)
	require.Equal(t, domain.Cents(3550), s.Total())
	require.Equal(t, 4, s.ItemCount())
}

func TestClearEmptiesCartAndStorage(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)

	s.Clear(ctx)
	require.Empty(t, s.Lines())
	require.Equal(t, domain.Cents(0), s.Total())

	_, ok, err := mem.Load(ctx, storage.CartKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRehydratesPersistedCart(t *testing.T) {
	mem := storage.NewMemoryStore()
	ctx := context.Background()

	first, err := NewStore(ctx, mem, zap.NewNop())
	require.NoError(t, err)
	_, err = first.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)
	_, err = first.AddLine(ctx, itemX, restaurantR)
	require.NoError(t, err)

	second, err := NewStore(ctx, mem, zap.NewNop())
	require.NoError(t, err)
	lines := second.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, domain.Cents(2000), second.Total())
}

func TestRehydrateDropsInvalidQuantities(t *testing.T) {
	mem := storage.NewMemoryStore()
	ctx := context.Background()

	bad := []domain.CartLine{
		{ID: "a", SourceItemID: "item-x", Quantity: 2, UnitPrice: 100, RestaurantID: "rest-1"},
		{ID: "b", SourceItemID: "item-y", Quantity: 0, UnitPrice: 100, RestaurantID: "rest-1"},
		{ID: "c", SourceItemID: "item-z", Quantity: -1, UnitPrice: 100, RestaurantID: "rest-1"},
	}
	data, err := json.Marshal(bad)
	require.NoError(t, err)
	require.NoError(t, mem.Save(ctx, storage.CartKey, data))

	s, err := NewStore(ctx, mem, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, s.Lines(), 1)
	require.Equal(t, "a", s.Lines()[0].ID)
}

func TestRehydrateSurvivesCorruptBlob(t *testing.T) {
	mem := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, mem.Save(ctx, storage.CartKey, []byte("{not json")))

	s, err := NewStore(ctx, mem, zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, s.Lines())
}
