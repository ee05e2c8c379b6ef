package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/anonto42/review-site/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestToHTTPError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core).Sugar()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	cases := []struct {
		err  error
		code int
	}{
		{&services.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}, http.StatusBadRequest},
		{&validators.FieldError{Field: "email", Reason: "is required"}, http.StatusBadRequest},
		{&services.OperationError{Message: "You cannot follow yourself"}, http.StatusBadRequest},
		{fmt.Errorf("store %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("toggle: %w", services.ErrPermissionDenied), http.StatusForbidden},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{echo.NewHTTPError(http.StatusConflict, "taken"), http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := toHTTPError(log, c, tc.err)
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he), tc.err.Error())
		assert.Equal(t, tc.code, he.Code, tc.err.Error())
	}

	// only the unexpected error is logged
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := toHTTPError(zap.NewNop().Sugar(), nil, &services.ValidationError{Field: "image", Reason: "must be an image"})
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	body, ok := he.Message.(echo.Map)
	require.True(t, ok)
	assert.Equal(t, "image", body["field"])
	assert.Equal(t, "must be an image", body["reason"])
}
