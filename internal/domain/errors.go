package domain

import (
	"errors"
	"fmt"
)

// Business-rule rejections surfaced to the caller. Handlers map these to
// HTTP statuses with errors.Is; ErrUnavailable is the one infra kind and
// must never be confused with a rule rejection.
var (
	ErrInvalidID      = errors.New("invalid identifier")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrOutOfStock     = errors.New("no copies available")
	ErrInvalidMember  = errors.New("member not found or inactive")
	ErrHasActiveLoans = errors.New("member has active loans")
	ErrUnavailable    = errors.New("store unavailable")
)

// Unavailable wraps a driver/store failure so callers can tell infra
// faults apart from business rejections.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
