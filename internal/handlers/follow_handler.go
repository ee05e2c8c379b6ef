package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles follow toggles and follower lists
type FollowHandler struct {
	graph *services.SocialGraphService
	log   *zap.SugaredLogger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph *services.SocialGraphService, log *zap.SugaredLogger) *FollowHandler {
	return &FollowHandler{graph: graph, log: log}
}

// RegisterFollowListRoutes registers the readable follower/following lists
func (h *FollowHandler) RegisterFollowListRoutes(g *echo.Group) {
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/friends", h.GetFriends)
}

// RegisterFollowRoutes registers the follow toggle
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// ToggleFollow follows the user, or unfollows when already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}

	result, err := h.graph.Follow(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}

	action, message := "followed", "Followed successfully"
	if result.Action == services.FollowRemoved {
		action, message = "unfollowed", "Unfollowed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"action":          action,
		"message":         message,
		"followers_count": result.FollowersCount,
		"is_following":    result.IsFollowing,
		"is_friend":       result.IsFriend,
	})
}

// GetFollowers lists the users following :id
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.list(c, "followers", h.graph.Followers)
}

// GetFollowing lists the users :id follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.list(c, "following", h.graph.Following)
}

// GetFriends lists the users :id follows who follow back
func (h *FollowHandler) GetFriends(c echo.Context) error {
	return h.list(c, "friends", h.graph.Friends)
}

func (h *FollowHandler) list(c echo.Context, key string, load func(context.Context, uint) ([]models.UserCompact, error)) error {
	userID, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	users, err := load(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{key: users, "count": len(users)})
}
