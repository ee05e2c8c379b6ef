package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
	log  *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, log *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

func session(c echo.Context, status int, token string, user *models.User) error {
	return ok(c, status, echo.Map{"token": token, "user": user})
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Signup(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return session(c, http.StatusCreated, token, user)
}

// SignIn handles local user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(h.log, c, err)
	}
	return session(c, http.StatusOK, token, user)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.auth.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
		}
		return toHTTPError(h.log, c, err)
	}
	return session(c, http.StatusOK, token, user)
}
