package handlers

import (
	"net/http"

	"github.com/anonto42/review-site/backend/internal/ratings"
	"github.com/labstack/echo/v4"
)

// RatingScale lists the rating levels, best first, for review forms.
func RatingScale(c echo.Context) error {
	return ok(c, http.StatusOK, echo.Map{"levels": ratings.Scale()})
}
