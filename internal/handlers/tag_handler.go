package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TagHandler handles the shared tag vocabulary
type TagHandler struct {
	tags *services.TagService
	log  *zap.SugaredLogger
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tags *services.TagService, log *zap.SugaredLogger) *TagHandler {
	return &TagHandler{tags: tags, log: log}
}

// RegisterTagReadRoutes registers the tag listing
func (h *TagHandler) RegisterTagReadRoutes(g *echo.Group) {
	g.GET("/tags", h.ListTags)
}

// RegisterTagRoutes registers tag creation
func (h *TagHandler) RegisterTagRoutes(g *echo.Group) {
	g.POST("/tags", h.CreateTag)
}

func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tags.List(c.Request().Context())
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"tags": tags})
}

func (h *TagHandler) CreateTag(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateTagRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Create(c.Request().Context(), currentUserID, req.Name, req.Color)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusCreated, tag)
}
