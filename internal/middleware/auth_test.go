package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type staticResolver map[string]uint

func (r staticResolver) ResolveToken(_ context.Context, token string) (*models.JwtCustomClaims, error) {
	if id, ok := r[token]; ok {
		return &models.JwtCustomClaims{UserID: id}, nil
	}
	return nil, errors.New("unknown token")
}

func serve(mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, uint) {
	e := echo.New()
	var seen uint
	e.GET("/", func(c echo.Context) error {
		seen = UserID(c)
		return c.NoContent(http.StatusNoContent)
	}, mw)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(staticResolver{"good": 5})

	cases := map[string]int{
		"":             http.StatusUnauthorized,
		"good":         http.StatusUnauthorized,
		"Bearer bad":   http.StatusUnauthorized,
		"Bearer good":  http.StatusNoContent,
		"bearer good":  http.StatusNoContent,
		"Basic abc123": http.StatusUnauthorized,
	}
	for header, want := range cases {
		rec, _ := serve(mw, header)
		assert.Equal(t, want, rec.Code, header)
	}

	_, seen := serve(mw, "Bearer good")
	assert.Equal(t, uint(5), seen)
}

func TestOptionalAuth(t *testing.T) {
	mw := OptionalAuth(staticResolver{"good": 5})

	rec, seen := serve(mw, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, seen)

	rec, seen = serve(mw, "Bearer expired")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, seen)

	_, seen = serve(mw, "Bearer good")
	assert.Equal(t, uint(5), seen)
}
