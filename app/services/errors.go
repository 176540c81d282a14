// Package services holds the business logic: order placement, sign-in,
// and the login rate limiter. Controllers map the typed errors defined
// here onto HTTP status codes.
package services

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation requires an
// authenticated actor and none was supplied.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidCredentials is returned on a failed email/password check.
// Deliberately opaque so callers cannot tell a bad email from a bad
// password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d fields)", len(e.Fields))
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError aborts an order when a product cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q", e.ProductName)
}
