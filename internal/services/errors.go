package services

import (
	"errors"
	"fmt"

	"poll-service/internal/repositories/postgres"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid request")
	ErrTransient          = errors.New("temporarily unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storeError classifies a database failure. Missing rows become
// ErrNotFound; everything else is reported as transient.
func storeError(op string, err error) error {
	if errors.Is(err, postgres.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransient, err)
}
