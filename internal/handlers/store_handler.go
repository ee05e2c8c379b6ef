package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StoreHandler handles store pages and store edits
type StoreHandler struct {
	stores  *services.StoreService
	reviews *services.ReviewService
	log     *zap.SugaredLogger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores *services.StoreService, reviews *services.ReviewService, log *zap.SugaredLogger) *StoreHandler {
	return &StoreHandler{stores: stores, reviews: reviews, log: log}
}

// RegisterStoreReadRoutes registers routes open to anonymous readers
func (h *StoreHandler) RegisterStoreReadRoutes(g *echo.Group) {
	g.GET("/stores", h.ListStores)
	g.GET("/stores/:id", h.GetStore)
}

// RegisterStoreRoutes registers routes that change stores
func (h *StoreHandler) RegisterStoreRoutes(g *echo.Group) {
	g.POST("/stores", h.CreateStore)
	g.PUT("/stores/:id", h.UpdateStore)
	g.DELETE("/stores/:id", h.DeleteStore)
	g.PUT("/stores/:id/image", h.UploadImage)
	g.POST("/stores/:id/reviews", h.CreateReview)
}

// ListStores lists stores, optionally narrowed by ?tag=<id> and ?q=<text>
func (h *StoreHandler) ListStores(c echo.Context) error {
	filter := models.StoreFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
	if raw := c.QueryParam("tag"); raw != "" {
		tagID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid tag ID")
		}
		filter.TagID = uint(tagID)
	}

	stores, err := h.stores.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"stores": stores, "count": len(stores)})
}

// GetStore returns the store page with its reviews
func (h *StoreHandler) GetStore(c echo.Context) error {
	storeID, err := paramID(c, "id", "store")
	if err != nil {
		return err
	}
	detail, err := h.stores.Get(c.Request().Context(), storeID, getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, detail)
}

// CreateStore registers a new store owned by the caller
func (h *StoreHandler) CreateStore(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := h.stores.Create(c.Request().Context(), currentUserID, req)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusCreated, store)
}

// UpdateStore edits a store; only its creator may do so
func (h *StoreHandler) UpdateStore(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	storeID, err := paramID(c, "id", "store")
	if err != nil {
		return err
	}
	var req models.StoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	store, err := h.stores.Update(c.Request().Context(), storeID, currentUserID, req)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, store)
}

// DeleteStore removes a store with its reviews and reactions
func (h *StoreHandler) DeleteStore(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	storeID, err := paramID(c, "id", "store")
	if err != nil {
		return err
	}
	if err := h.stores.Delete(c.Request().Context(), storeID, currentUserID); err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Store deleted"})
}

// UploadImage replaces the store photo
func (h *StoreHandler) UploadImage(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	storeID, err := paramID(c, "id", "store")
	if err != nil {
		return err
	}
	upload, err := openUpload(c)
	if err != nil {
		return err
	}
	defer upload.Close()

	store, err := h.stores.SetImage(c.Request().Context(), storeID, currentUserID, upload)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"id": store.ID, "image_url": store.DataURL()})
}

// CreateReview posts the caller's rating of the store
func (h *StoreHandler) CreateReview(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	storeID, err := paramID(c, "id", "store")
	if err != nil {
		return err
	}
	var req models.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.Request().Context(), storeID, currentUserID, req.Rating, req.Comment)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusCreated, review)
}
