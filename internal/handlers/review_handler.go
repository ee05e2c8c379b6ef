package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReviewHandler handles review removal and reactions on reviews
type ReviewHandler struct {
	reviews   *services.ReviewService
	reactions *services.ReactionService
	log       *zap.SugaredLogger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews *services.ReviewService, reactions *services.ReactionService, log *zap.SugaredLogger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, reactions: reactions, log: log}
}

// RegisterReviewRoutes registers review routes
func (h *ReviewHandler) RegisterReviewRoutes(g *echo.Group) {
	g.DELETE("/reviews/:id", h.DeleteReview)
	g.POST("/reviews/:id/reactions", h.React)
}

// DeleteReview removes the caller's own review
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	reviewID, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	review, err := h.reviews.Delete(c.Request().Context(), reviewID, currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"message":  "Review deleted",
		"store_id": review.StoreID,
	})
}

// React toggles the caller's good/bad/question reaction on a review
func (h *ReviewHandler) React(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	reviewID, err := paramID(c, "id", "review")
	if err != nil {
		return err
	}
	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.reactions.React(c.Request().Context(), reviewID, currentUserID, models.ReactionKind(req.Kind))
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, result)
}
