package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/notification"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	store  *notification.Store
	logger *zap.Logger
}

func NewNotificationHandler(store *notification.Store, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{store: store, logger: logger}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"notifications": h.store.Feed(),
		"unreadCount":   h.store.UnreadCount(),
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	h.store.MarkRead(c.UserContext(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	h.store.MarkAllRead(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) Remove(c *fiber.Ctx) error {
	h.store.Remove(c.UserContext(), c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"unreadCount": h.store.UnreadCount()})
}
