package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/domain"
	"github.com/manify/cram-eats/internal/order"
	"github.com/manify/cram-eats/internal/tracking"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders   order.Service
	logger   *zap.Logger
	validate *validator.Validate
}

func NewOrderHandler(orders order.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		logger:   logger,
		validate: validator.New(),
	}
}

type placeOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"required,min=5"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input placeOrderRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse body in create order", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "error parsing body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": FormatValidationError(err)})
	}

	placed, err := h.orders.PlaceOrder(c.UserContext(), input.DeliveryAddress)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownOutcome) {
			// Not a failure: the order may exist server-side. Tell
			// the client to reconcile instead of resubmitting.
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status": "unknown",
				"detail": "order submission timed out; refresh your order history before retrying",
			})
		}
		mylogger.Warn(c.UserContext(), h.logger, "place order failed", zap.Error(err))
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	mylogger.Info(
		c.UserContext(),
		h.logger,
		"order placed",
		zap.String("order_id", placed.ID),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":  orderView(placed),
		"status": "success",
	})
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(int64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "userId parsing error"})
	}

	orders, err := h.orders.FetchOrderHistory(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, order.ErrSuperseded) {
			// A newer fetch is in flight; its response carries the data.
			return c.SendStatus(fiber.StatusNoContent)
		}
		mylogger.Warn(c.UserContext(), h.logger, "fetch order history failed", zap.Error(err))
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	views := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView(o))
	}
	return c.JSON(fiber.Map{"orders": views})
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.orders.GetOrderByID(c.Params("id"))
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"order": orderView(o)})
}

func (h *OrderHandler) Refresh(c *fiber.Ctx) error {
	o, err := h.orders.RefreshOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		mylogger.Warn(c.UserContext(), h.logger, "refresh order failed", zap.Error(err))
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"order": orderView(o)})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var input updateStatusRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "error parsing body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": FormatValidationError(err)})
	}

	o, err := h.orders.UpdateOrderStatus(c.UserContext(), c.Params("id"), domain.OrderStatus(input.Status))
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"order": orderView(o)})
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, err := h.orders.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"order": orderView(o)})
}

func (h *OrderHandler) Tracking(c *fiber.Ctx) error {
	o, err := h.orders.GetOrderByID(c.Params("id"))
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	view := fiber.Map{
		"orderId":   o.ID,
		"status":    o.Status,
		"steps":     tracking.Steps(o),
		"canCancel": tracking.CanCancel(o.Status),
	}
	if eta, ok := tracking.ETA(o); ok {
		view["estimatedDelivery"] = eta
	}
	return c.JSON(view)
}

// orderView renders an order with wire-level dollar amounts and the
// derived tracking timeline.
func orderView(o domain.Order) fiber.Map {
	return fiber.Map{
		"id":              o.ID,
		"restaurantId":    o.RestaurantID,
		"restaurantName":  o.RestaurantName,
		"status":          o.Status,
		"items":           o.Items,
		"subtotal":        o.Subtotal.Dollars(),
		"deliveryFee":     o.DeliveryFee.Dollars(),
		"total":           o.Total.Dollars(),
		"deliveryAddress": o.DeliveryAddress,
		"placedAt":        o.PlacedAt,
		"steps":           tracking.Steps(o),
	}
}
