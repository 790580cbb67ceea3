// Package payment provides clients for the third-party payment service used to
// request money from recipients.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAuth is returned when the service rejects the session credentials.
var ErrAuth = errors.New("payment service authentication failed")

// Client defines the operations the dispatcher needs from the payment service.
// Each call reports its own result; a nil error means the service accepted it.
type Client interface {
	// EnsureSession verifies that the configured credentials are usable.
	// It is called once before any request is issued.
	EnsureSession(ctx context.Context) error

	// RequestMoney asks target (a handle with its marker, e.g. "@alice") to pay
	// amount with the given note.
	RequestMoney(ctx context.Context, target string, amount decimal.Decimal, note string) error
}

// APIError is a non-success response from the payment service.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment service returned status %d", e.Status)
	}
	return fmt.Sprintf("payment service returned status %d: %s", e.Status, e.Message)
}
