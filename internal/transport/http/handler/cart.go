package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/cart"
	"github.com/manify/cram-eats/internal/catalog"
	"github.com/manify/cram-eats/internal/domain"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart     *cart.Store
	logger   *zap.Logger
	validate *validator.Validate
}

func NewCartHandler(cartStore *cart.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:     cartStore,
		logger:   logger,
		validate: validator.New(),
	}
}

type addLineRequest struct {
	ItemID         string  `json:"itemId" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	RestaurantID   string  `json:"restaurantId" validate:"required"`
	RestaurantName string  `json:"restaurantName"`
	ImageURL       string  `json:"imageUrl"`
	Category       string  `json:"category"`
	Available      *bool   `json:"available"`
}

func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var input addLineRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse body in add line", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "error parsing body"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": FormatValidationError(err)})
	}

	// Availability defaults to true when the catalog omits the flag.
	available := input.Available == nil || *input.Available

	line, err := h.cart.AddLine(
		c.UserContext(),
		catalog.Item{
			ID:        input.ItemID,
			Name:      input.Name,
			UnitPrice: domain.CentsFromDollars(input.Price),
			ImageURL:  input.ImageURL,
			Category:  input.Category,
			Available: available,
		},
		catalog.Restaurant{ID: input.RestaurantID, Name: input.RestaurantName},
	)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(line)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var input setQuantityRequest
	if err := c.BodyParser(&input); err != nil {
		h.logger.Warn("failed to parse body in set quantity", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "error parsing body"})
	}

	h.cart.SetQuantity(c.UserContext(), c.Params("id"), input.Quantity)
	return h.Get(c)
}

func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	h.cart.RemoveLine(c.UserContext(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.cart.Clear(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"lines":     h.cart.Lines(),
		"total":     h.cart.Total().Dollars(),
		"itemCount": h.cart.ItemCount(),
	})
}
