package order

import (
	"fmt"
	"time"

	"github.com/manify/cram-eats/internal/domain"
)

// Placeholder values used when the backend omits a display field that has
// a safe default. Fields without a safe default (id, status, creation
// time) cause the record to be rejected instead.
const (
	placeholderItemName       = "Unknown item"
	placeholderRestaurantName = "Unknown restaurant"
)

// toDomain translates one backend order record into the local shape. It
// is total over well-formed records: every field is either carried over,
// defaulted per the documented policy, or the record is rejected.
func toDomain(rec OrderRecord) (domain.Order, error) {
	if rec.ID == "" {
		return domain.Order{}, fmt.Errorf("order record without id: %w", domain.ErrValidation)
	}

	status := domain.OrderStatus(rec.Status)
	if !status.IsValid() {
		return domain.Order{}, fmt.Errorf("order %s has unknown status %q: %w", rec.ID, rec.Status, domain.ErrValidation)
	}

	placedAt, err := time.Parse(time.RFC3339, rec.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s has unreadable createdAt %q: %w", rec.ID, rec.CreatedAt, domain.ErrValidation)
	}

	o := domain.Order{
		ID:              rec.ID,
		UserID:          rec.UserID,
		Status:          status,
		Total:           domain.CentsFromDollars(rec.TotalPrice),
		DeliveryFee:     domain.CentsFromDollars(rec.DeliveryFee),
		DeliveryAddress: rec.DeliveryAddress,
		PlacedAt:        placedAt,
		UpdatedAt:       placedAt,
	}
	o.Subtotal = o.Total - o.DeliveryFee

	if rec.Restaurant != nil {
		o.RestaurantID = rec.Restaurant.ID
		o.RestaurantName = rec.Restaurant.Name
	}
	if o.RestaurantName == "" {
		o.RestaurantName = placeholderRestaurantName
	}

	if rec.EstimatedDelivery != "" {
		if eta, err := time.Parse(time.RFC3339, rec.EstimatedDelivery); err == nil {
			o.EstimatedDelivery = &eta
		}
	}

	o.Items = make([]domain.OrderItem, 0, len(rec.Items))
	for _, item := range rec.Items {
		name := item.Name
		if name == "" {
			// An item whose catalog reference is gone still counts
			// toward the order; it is kept under a marked placeholder,
			// never dropped.
			name = placeholderItemName
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		o.Items = append(o.Items, domain.OrderItem{
			SourceItemID: item.ItemID,
			Name:         name,
			UnitPrice:    domain.CentsFromDollars(item.Price),
			Quantity:     qty,
		})
	}

	return o, nil
}
