package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/manify/cram-eats/internal/auth"
	"github.com/manify/cram-eats/internal/transport/http/handler"
	"github.com/manify/cram-eats/internal/transport/http/middleware"
)

type Handlers struct {
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, accessSecret string, session *auth.Session) {
	api := app.Group("/api", middleware.NewAuthMiddleware(accessSecret, session))

	cart := api.Group("/cart")
	cart.Get("", h.Cart.Get)
	cart.Delete("", h.Cart.Clear)
	cart.Post("/items", h.Cart.AddLine)
	cart.Patch("/items/:id", h.Cart.SetQuantity)
	cart.Delete("/items/:id", h.Cart.RemoveLine)

	orders := api.Group("/orders")
	orders.Post("", h.Order.Create)
	orders.Get("", h.Order.List)
	orders.Get("/:id", h.Order.GetByID)
	orders.Post("/:id/refresh", h.Order.Refresh)
	orders.Post("/:id/status", h.Order.UpdateStatus)
	orders.Post("/:id/cancel", h.Order.Cancel)
	orders.Get("/:id/tracking", h.Order.Tracking)

	notifications := api.Group("/notifications")
	notifications.Get("", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Post("/read-all", h.Notification.MarkAllRead)
	notifications.Post("/:id/read", h.Notification.MarkRead)
	notifications.Delete("/:id", h.Notification.Remove)
}
