package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenVerifier verifies Firebase ID tokens; *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService signs users up and in and resolves bearer tokens to users.
type AuthService struct {
	repos    *repositories.Repositories
	secret   []byte
	ttl      time.Duration
	firebase TokenVerifier
}

// NewAuthService creates an AuthService. firebase may be nil, which disables Firebase login.
func NewAuthService(repos *repositories.Repositories, jwtSecret string, ttl time.Duration, firebase TokenVerifier) *AuthService {
	return &AuthService{repos: repos, secret: []byte(jwtSecret), ttl: ttl, firebase: firebase}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a local account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (string, *models.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repos.Users.GetUserByEmail(ctx, email); err == nil {
		return "", nil, invalidField("email", "is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Name: strings.TrimSpace(req.Name), Email: email, Password: string(hashed)}
	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return "", nil, invalidField("email", "is already registered")
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Signin checks a local password and returns a fresh token.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repos.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if user.Password == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// FirebaseLogin verifies a Firebase ID token, links or creates the local user and
// returns a local token.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (string, *models.User, error) {
	if s.firebase == nil {
		return "", nil, &OperationError{Message: "Firebase login is not enabled"}
	}
	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	email, _ := token.Claims["email"].(string)
	email = normalizeEmail(email)
	name, _ := token.Claims["name"].(string)
	verified, _ := token.Claims["email_verified"].(bool)

	user, err := s.upsertFirebaseUser(ctx, token.UID, email, name, verified)
	if err != nil {
		return "", nil, err
	}
	local, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return local, user, nil
}

func (s *AuthService) upsertFirebaseUser(ctx context.Context, uid, email, name string, emailVerified bool) (*models.User, error) {
	user, err := s.repos.Users.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if email != "" {
		user, err = s.repos.Users.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			// An existing account is only linked on an address Firebase has verified.
			if !emailVerified {
				return nil, ErrInvalidCredentials
			}
			if err := s.repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{"firebase_uid": uid}); err != nil {
				return nil, fmt.Errorf("link firebase account: %w", err)
			}
			user.FirebaseUID = &uid
			return user, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load user: %w", err)
		}
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = &models.User{Name: name, Email: email, FirebaseUID: &uid}
	if user.Email == "" {
		user.Email = uid + "@firebase.local"
	}
	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return s.repos.Users.GetUserByFirebaseUID(ctx, uid)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// IssueToken signs an HS256 token carrying the user id and email.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a local token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// ResolveToken accepts a local token or, when enabled, a Firebase ID token and returns
// the claims of the local user behind it.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.JwtCustomClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err == nil {
		return claims, nil
	}
	if s.firebase == nil {
		return nil, ErrInvalidCredentials
	}
	fbToken, err := s.firebase.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repos.Users.GetUserByFirebaseUID(ctx, fbToken.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &models.JwtCustomClaims{UserID: user.ID, Email: user.Email}, nil
}
