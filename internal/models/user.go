package models

import (
	"time"

	"github.com/anonto42/review-site/backend/pkg/media"
	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:255"` // Ensure email is unique across all users
	Bio         string    `json:"bio" gorm:"size:300"`
	Avatar      string    `json:"-" gorm:"type:text"` // base64 JPEG, see media.Normalize
	Password    string    `json:"-"`                  // Store hashed password, ignore for JSON serialization
	FirebaseUID *string   `json:"-" gorm:"uniqueIndex;size:128"`
	DeviceToken string    `json:"-" gorm:"size:255"` // FCM registration token
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvatarURL returns the avatar as a data URL, or "" when no avatar is set.
func (u *User) AvatarURL() string {
	return media.DataURL(u.Avatar)
}

// UserCompact is the public projection of a user embedded in other responses
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL()}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio  string `json:"bio,omitempty" validate:"omitempty,max=300"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required,max=255"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
