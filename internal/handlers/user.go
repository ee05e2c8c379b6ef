package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler serves profile pages and the caller's own account settings
type UserHandler struct {
	profiles *services.ProfileService
	log      *zap.SugaredLogger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profiles *services.ProfileService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{profiles: profiles, log: log}
}

// RegisterUserRoutes registers public profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
}

// RegisterProfileRoutes registers routes acting on the caller's own profile
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/avatar", h.UploadAvatar)
	g.PUT("/profile/device-token", h.SetDeviceToken)
}

// GetUser returns a user's profile with viewer-specific follow state
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := paramID(c, "id", "user")
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), userID, getUserIDFromContext(c))
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, profile)
}

// GetProfile returns the authenticated user's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.Get(c.Request().Context(), currentUserID, currentUserID)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, profile)
}

// UpdateProfile changes the caller's name and bio
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.profiles.Update(c.Request().Context(), currentUserID, req)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, user)
}

// UploadAvatar replaces the caller's avatar with the uploaded image
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	upload, err := openUpload(c)
	if err != nil {
		return err
	}
	defer upload.Close()

	url, err := h.profiles.SetAvatar(c.Request().Context(), currentUserID, upload)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return ok(c, http.StatusOK, echo.Map{"avatar_url": url})
}

// SetDeviceToken stores the FCM registration token of the caller's device
func (h *UserHandler) SetDeviceToken(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.DeviceTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.profiles.SetDeviceToken(c.Request().Context(), currentUserID, req.Token); err != nil {
		return toHTTPError(h.log, c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Device token saved"})
}
