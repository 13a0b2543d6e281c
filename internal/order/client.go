package order

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client talks to the remote order service over REST. Tokens are passed
// per call so a login/logout boundary is never cached away.
type Client interface {
	CreateOrder(ctx context.Context, token, idempotencyKey string, req CreateOrderRequest) (*OrderRecord, error)
	OrdersByUser(ctx context.Context, token string, userID int64, page, limit int) ([]OrderRecord, error)
	OrderByID(ctx context.Context, token, orderID string) (*OrderRecord, error)
}

// CreateOrderRequest is the POST /orders body.
type CreateOrderRequest struct {
	UserID          int64             `json:"userId"`
	RestaurantID    string            `json:"restaurantId"`
	TotalPrice      float64           `json:"totalPrice"`
	DeliveryAddress string            `json:"deliveryAddress"`
	Items           []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// OrderRecord is the backend's loosely-typed order shape. Fields may be
// absent; translate.go decides what is defaulted and what is rejected.
type OrderRecord struct {
	ID                string            `json:"id"`
	UserID            int64             `json:"userId"`
	Status            string            `json:"status"`
	TotalPrice        float64           `json:"totalPrice"`
	DeliveryFee       float64           `json:"deliveryFee"`
	DeliveryAddress   string            `json:"deliveryAddress"`
	Restaurant        *RestaurantRecord `json:"restaurant"`
	Items             []ItemRecord      `json:"items"`
	CreatedAt         string            `json:"createdAt"`
	EstimatedDelivery string            `json:"estimatedDelivery"`
}

type RestaurantRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemRecord struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type createOrderResponse struct {
	Success bool         `json:"success"`
	Order   *OrderRecord `json:"order"`
}

type orderListResponse struct {
	Orders     []OrderRecord `json:"orders"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"pagination"`
}

type restClient struct {
	http   *resty.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
	tracer trace.Tracer
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	settings := gobreaker.Settings{
		Name:        "OrderAPI",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &restClient{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
		tracer: otel.Tracer("order_client"),
	}
}

func (c *restClient) CreateOrder(ctx context.Context, token, idempotencyKey string, req CreateOrderRequest) (*OrderRecord, error) {
	ctx, span := c.tracer.Start(ctx, "OrderClient.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", req.UserID),
		attribute.String("restaurant_id", req.RestaurantID),
	)

	return executeWithBreaker(c.cb, func() (*OrderRecord, error) {
		var out createOrderResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetHeader("Idempotency-Key", idempotencyKey).
			SetBody(req).
			SetResult(&out).
			Post("/orders")
		if err != nil {
			span.RecordError(err)
			if isTimeout(err) {
				// The request may have reached the server; this
				// must not be reported as plain failure.
				return nil, fmt.Errorf("order submission timed out: %w", domain.ErrUnknownOutcome)
			}
			return nil, fmt.Errorf("order submission failed: %w", domain.ErrTransient)
		}
		if resp.IsError() {
			return nil, classifyStatus(resp.StatusCode())
		}
		if !out.Success || out.Order == nil {
			return nil, fmt.Errorf("backend did not accept the order: %w", domain.ErrValidation)
		}
		return out.Order, nil
	})
}

func (c *restClient) OrdersByUser(ctx context.Context, token string, userID int64, page, limit int) ([]OrderRecord, error) {
	ctx, span := c.tracer.Start(ctx, "OrderClient.OrdersByUser")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID))

	return executeWithBreaker(c.cb, func() ([]OrderRecord, error) {
		var out orderListResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetQueryParam("page", fmt.Sprintf("%d", page)).
			SetQueryParam("limit", fmt.Sprintf("%d", limit)).
			SetResult(&out).
			Get(fmt.Sprintf("/orders/user/%d", userID))
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("order history fetch failed: %w", domain.ErrTransient)
		}
		if resp.IsError() {
			return nil, classifyStatus(resp.StatusCode())
		}
		return out.Orders, nil
	})
}

func (c *restClient) OrderByID(ctx context.Context, token, orderID string) (*OrderRecord, error) {
	ctx, span := c.tracer.Start(ctx, "OrderClient.OrderByID")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID))

	return executeWithBreaker(c.cb, func() (*OrderRecord, error) {
		var out OrderRecord
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetResult(&out).
			Get(fmt.Sprintf("/orders/%s", orderID))
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("order fetch failed: %w", domain.ErrTransient)
		}
		if resp.IsError() {
			return nil, classifyStatus(resp.StatusCode())
		}
		return &out, nil
	})
}

func executeWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("order service unavailable: %w", domain.ErrTransient)
		}
		return *new(T), err
	}
	return res.(T), nil
}

// classifyStatus maps a non-2xx upstream status onto the error taxonomy.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("upstream status %d: %w", status, domain.ErrUnauthenticated)
	case status == http.StatusNotFound:
		return fmt.Errorf("upstream status %d: %w", status, domain.ErrNotFound)
	case status >= 500:
		return fmt.Errorf("upstream status %d: %w", status, domain.ErrTransient)
	default:
		return fmt.Errorf("upstream status %d: %w", status, domain.ErrValidation)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
