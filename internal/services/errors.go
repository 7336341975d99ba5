package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors returned by the services in this package. Handlers map
// them onto HTTP responses; anything else that bubbles up is treated as
// an internal failure and hidden from clients.
var (
	ErrChallengeNotFound  = errors.New("verification code not found or expired")
	ErrChallengeExpired   = errors.New("verification code has expired")
	ErrTooManyAttempts    = errors.New("too many failed attempts, request a new code")
	ErrRateLimited        = errors.New("a code was sent recently, wait before requesting another")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
)

// InvalidCodeError reports a failed code check along with how many
// attempts remain before the challenge is discarded.
type InvalidCodeError struct {
	AttemptsRemaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.AttemptsRemaining)
}

// ProductNotFoundError identifies the missing product in a rejected order.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError identifies the product whose stock could not
// cover the requested quantity. The whole order is rejected.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
