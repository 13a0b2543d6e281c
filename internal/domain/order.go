package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// StatusSequence is the canonical happy-path progression. CANCELLED sits
// outside the sequence and is reachable from any non-terminal status.
var StatusSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusPreparing:      2,
	OrderStatusReady:          3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

// Rank returns the position of s in the canonical sequence. CANCELLED and
// unknown values have no rank.
func (s OrderStatus) Rank() (int, bool) {
	r, ok := statusRank[s]
	return r, ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from s to next. Same
// status is allowed (idempotent re-apply), backward moves are not, and
// CANCELLED is reachable from anything non-terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, okFrom := s.Rank()
	to, okTo := next.Rank()
	if !okFrom || !okTo {
		return false
	}
	return to > from
}

type OrderItem struct {
	SourceItemID string `json:"sourceItemId"`
	Name         string `json:"name"`
	UnitPrice    Cents  `json:"unitPrice"`
	Quantity     int    `json:"quantity"`
}

// Order is an immutable snapshot of a checkout. Items are copied from the
// cart at submission time; later cart mutations never reach back into a
// placed order. The ID is client-temporary until the server accepts the
// submission.
type Order struct {
	ID                string      `json:"id"`
	UserID            int64       `json:"userId"`
	RestaurantID      string      `json:"restaurantId"`
	RestaurantName    string      `json:"restaurantName"`
	Status            OrderStatus `json:"status"`
	Items             []OrderItem `json:"items"`
	Subtotal          Cents       `json:"subtotal"`
	DeliveryFee       Cents       `json:"deliveryFee"`
	Total             Cents       `json:"total"`
	DeliveryAddress   string      `json:"deliveryAddress"`
	PlacedAt          time.Time   `json:"placedAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
}
