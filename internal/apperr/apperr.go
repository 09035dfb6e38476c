package apperr

import "errors"

// Sentinel errors shared by all services. Handlers never inspect these
// directly; the HTTP error handler maps them to status codes and the
// uniform error body.
var (
	ErrNotFound            = errors.New("not found")             // 404
	ErrAlreadyExists       = errors.New("already exists")        // 409
	ErrBadCredentials      = errors.New("bad credentials")       // 401
	ErrInvalidRefreshToken = errors.New("invalid refresh token") // 401
	ErrCartItemNotFound    = errors.New("cart item not found")   // 404
	ErrValidation          = errors.New("validation")            // 400
)

// ValidationError carries per-field messages from request validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "request validation failed" }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation wraps field messages into an error, or returns nil when the
// map is empty.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
