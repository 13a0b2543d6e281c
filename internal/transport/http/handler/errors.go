package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/cart"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/order"
)

// StatusFromError maps the store error taxonomy onto HTTP status codes.
// ErrUnknownOutcome gets 202: the submission is neither confirmed nor
// failed and the client is expected to reconcile with a history fetch.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnknownOutcome):
		return fiber.StatusAccepted
	case errors.Is(err, order.ErrStaleTransition), errors.Is(err, order.ErrCancelNotAllowed):
		return fiber.StatusConflict
	case errors.Is(err, cart.ErrItemUnavailable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrTransient):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func FormatValidationError(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = "request is invalid"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
