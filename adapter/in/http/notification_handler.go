package http

import (
	"github.com/gofiber/fiber/v2"

	"mailmind_server/core/service/notification"
	"mailmind_server/pkg/apperr"
	"mailmind_server/pkg/response"
)

// NotificationHandler exposes the unseen-alert queue.
type NotificationHandler struct {
	notificationService *notification.Service
}

func NewNotificationHandler(notificationService *notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Register registers notification routes on the protected /emails group.
func (h *NotificationHandler) Register(router fiber.Router) {
	notifications := router.Group("/notifications")
	notifications.Get("/", h.ListUnseen)
	notifications.Post("/seen", h.MarkAllSeen)
}

// ListUnseen returns the user's unseen notifications, newest first.
func (h *NotificationHandler) ListUnseen(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationService.ListUnseen(c.Context(), userID)
	if err != nil {
		return apperr.DatabaseError("list notifications", err)
	}
	return response.OKWithMeta(c, notifications, &response.Meta{Total: len(notifications)})
}

// MarkAllSeen acknowledges every notification for the user.
func (h *NotificationHandler) MarkAllSeen(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkAllSeen(c.Context(), userID); err != nil {
		return apperr.DatabaseError("mark notifications seen", err)
	}
	return response.OK(c, fiber.Map{"message": "all notifications marked seen"})
}
