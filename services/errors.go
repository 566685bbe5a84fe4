package services

import (
	"errors"
	"fmt"
	"movehub-backend/repository"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("conflict")

	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
	ErrRequestLocked     = fmt.Errorf("%w: request can no longer be edited", ErrConflict)
	ErrQuoteClosed       = fmt.Errorf("%w: quote is closed", ErrConflict)
	ErrContractLocked    = fmt.Errorf("%w: only draft contracts can be changed", ErrConflict)
	ErrConcurrentUpdate  = fmt.Errorf("%w: resource was modified concurrently, please retry", ErrConflict)
)

// ValidationError is returned for bad input. Field names the offending JSON field when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// notFound translates the repository miss into the service error
func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return err
}
