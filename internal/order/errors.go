package order

import "errors"

var (
	// ErrSuperseded marks a fetch whose response arrived after a newer
	// fetch for the same resource was issued. The result was discarded;
	// the last request wins.
	ErrSuperseded = errors.New("fetch superseded by a newer request")

	// ErrStaleTransition marks a status update whose target is behind
	// the currently stored status. The order is left untouched.
	ErrStaleTransition = errors.New("stale status transition")

	// ErrCancelNotAllowed marks a user cancel attempt past the point
	// where the client may still cancel.
	ErrCancelNotAllowed = errors.New("order can no longer be cancelled")

	// ErrMixedRestaurants marks a checkout over a cart holding lines
	// from more than one restaurant.
	ErrMixedRestaurants = errors.New("cart spans multiple restaurants")
)
