package errs

import (
	"errors"
	"fmt"

	"github.com/Astemirdum/bookstore-service/pkg/validate"
)

var (
	ErrNotFound           = errors.New("Not found.")
	ErrUnauthenticated    = errors.New("Authentication credentials were not provided.")
	ErrForbidden          = errors.New("You do not have permission to perform this action.")
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	ErrUserExists         = errors.New("A user with that username already exists.")
)

// ValidationError maps a field name to its messages and is reported as 400.
type ValidationError = validate.FieldErrors

func NewValidationError(field, msg string) ValidationError {
	return ValidationError{field: {msg}}
}

func InvalidChoice(v any) string {
	return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(v))
}
