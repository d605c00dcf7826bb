package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// The four caller-visible failure kinds. Anything else that bubbles out of
// the storage layer is treated as a storage error and surfaced generically.
var (
	errValidation = errors.New("blogservice: validation error")
	errConflict   = errors.New("blogservice: conflict")
	errNotFound   = errors.New("blogservice: not found")

	ErrUnauthorized = errors.New("unauthorized")
)

type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func (e *validationError) Unwrap() error {
	return errValidation
}

func newValidationError(format string, args ...interface{}) error {
	message := strings.TrimSpace(fmt.Sprintf(format, args...))
	if message == "" {
		message = "invalid input"
	}
	return &validationError{message: message}
}

type conflictError struct {
	message string
}

func (e *conflictError) Error() string {
	return e.message
}

func (e *conflictError) Unwrap() error {
	return errConflict
}

func newConflictError(format string, args ...interface{}) error {
	return &conflictError{message: fmt.Sprintf(format, args...)}
}

type notFoundError struct {
	message string
}

func (e *notFoundError) Error() string {
	return e.message
}

func (e *notFoundError) Unwrap() error {
	return errNotFound
}

func newNotFoundError(format string, args ...interface{}) error {
	return &notFoundError{message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err indicates invalid user input.
func IsValidationError(err error) bool {
	return err != nil && errors.Is(err, errValidation)
}

// IsConflict reports whether err indicates a uniqueness violation the
// caller should resolve by re-prompting or disambiguating.
func IsConflict(err error) bool {
	return err != nil && errors.Is(err, errConflict)
}

// IsNotFound reports whether err means the referenced entity does not
// exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, errNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqlState interface{ SQLState() string }
	if errors.As(err, &sqlState) {
		return sqlState.SQLState() == "23505"
	}

	return false
}
