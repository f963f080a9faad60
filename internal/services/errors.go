package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested video, playlist, chat or message does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when a collaborator call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// externalError marks err as a collaborator failure while keeping it inspectable.
func externalError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
}
