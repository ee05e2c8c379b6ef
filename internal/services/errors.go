package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/review-site/backend/internal/repositories"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// maxToggleAttempts bounds how often a toggle is replayed after losing an insert race.
const maxToggleAttempts = 3

// ValidationError rejects one input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// OperationError is an ErrInvalidOperation carrying a message fit for the end user.
type OperationError struct {
	Message string
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// lookupError turns a missing row into ErrNotFound and wraps anything else.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// retryOnConflict replays fn while it fails on a unique index, up to maxToggleAttempts.
func retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		if err = fn(); !repositories.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}
