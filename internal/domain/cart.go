package domain

// CartLine is one distinct orderable item with a quantity, scoped to one
// restaurant. A resident line always has Quantity >= 1; driving the
// quantity to zero removes the line instead of storing it.
type CartLine struct {
	ID             string `json:"id"`
	SourceItemID   string `json:"sourceItemId"`
	Name           string `json:"name"`
	UnitPrice      Cents  `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Category       string `json:"category,omitempty"`
}

// LineTotal is the extended price of the line.
func (l CartLine) LineTotal() Cents {
	return l.UnitPrice * Cents(l.Quantity)
}

// SameItem reports whether another addition coalesces into this line.
// Uniqueness key is (sourceItemId, restaurantId).
func (l CartLine) SameItem(sourceItemID, restaurantID string) bool {
	return l.SourceItemID == sourceItemID && l.RestaurantID == restaurantID
}
