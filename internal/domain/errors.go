package domain

import "errors"

// Outcome taxonomy shared by every store. Operations wrap these with
// fmt.Errorf("...: %w", err) so callers dispatch with errors.Is.
var (
	// ErrUnauthenticated means no valid session or token was present when
	// one is required. Never retried automatically.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrValidation marks a request rejected before or by the backend for
	// being malformed (empty cart, bad quantity). Not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrTransient marks a timeout, refused connection or 5xx on an
	// idempotent read. Safe to retry with backoff.
	ErrTransient = errors.New("transient upstream failure")

	// ErrNotFound means the referenced order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownOutcome marks a mutating call whose result is ambiguous
	// (the request may have reached the server before the timeout). The
	// caller must reconcile via a history fetch, never blind-retry.
	ErrUnknownOutcome = errors.New("request outcome unknown")
)
