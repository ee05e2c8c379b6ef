package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/anonto42/review-site/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func fieldError(field, reason string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"success": false,
		"field":   field,
		"reason":  reason,
		"message": field + " " + reason,
	})
}

// toHTTPError maps service errors onto status codes; anything unrecognised is logged and hidden.
func toHTTPError(log *zap.SugaredLogger, c echo.Context, err error) error {
	var vErr *services.ValidationError
	var fErr *validators.FieldError
	var opErr *services.OperationError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &vErr):
		return fieldError(vErr.Field, vErr.Reason)
	case errors.As(err, &fErr):
		return fieldError(fErr.Field, fErr.Reason)
	case errors.As(err, &opErr):
		return echo.NewHTTPError(http.StatusBadRequest, opErr.Message)
	case errors.Is(err, services.ErrInvalidOperation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	log.Errorw("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		var fErr *validators.FieldError
		if errors.As(err, &fErr) {
			return fieldError(fErr.Field, fErr.Reason)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
