package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MessageHandler handles direct messages between two users
type MessageHandler struct {
	messaging *services.MessagingService
	log       *zap.SugaredLogger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messaging *services.MessagingService, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messaging: messaging, log: log}
}

// RegisterMessageRoutes registers conversation routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.ListConversations)
	g.GET("/conversations/unread-count", h.GetUnreadCount)
	g.POST("/conversations/with/:user_id", h.OpenConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PUT("/conversations/:id/read", h.MarkRead)
}

// ListConversations returns the caller's inbox
func (h *MessageHandler) ListConversations(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	convs, err := h.messaging.Conversations(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"conversations": convs})
}

// OpenConversation gets or creates the conversation with :user_id and returns its thread
func (h *MessageHandler) OpenConversation(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	otherID, err := paramID(c, "user_id", "user")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	conv, err := h.messaging.GetOrCreateConversation(ctx, currentUserID, otherID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	thread, err := h.messaging.OpenThread(ctx, conv.ID, currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, thread)
}

// GetMessages returns the thread and marks received messages as read
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	convID, err := paramID(c, "id", "conversation")
	if err != nil {
		return err
	}
	thread, err := h.messaging.OpenThread(c.Request().Context(), convID, currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, thread)
}

// SendMessage appends a message to the conversation
func (h *MessageHandler) SendMessage(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	convID, err := paramID(c, "id", "conversation")
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messaging.PostMessage(c.Request().Context(), convID, currentUserID, req.Content)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusCreated, msg)
}

// MarkRead flags the messages the caller received in the conversation as read
func (h *MessageHandler) MarkRead(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	convID, err := paramID(c, "id", "conversation")
	if err != nil {
		return err
	}
	marked, err := h.messaging.MarkRead(c.Request().Context(), convID, currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"marked": marked})
}

// GetUnreadCount returns the number of unread messages addressed to the caller
func (h *MessageHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	count, err := h.messaging.UnreadMessages(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}
