package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	log           *zap.SugaredLogger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
}

// GetNotifications returns the unread notifications and clears them
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	items, cleared, err := h.notifications.ListAndClear(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"notifications": items, "cleared": cleared})
}

// GetUnreadCount returns how many notifications are waiting
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}
