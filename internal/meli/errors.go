package meli

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches a StatusError for a 401 or 403 response.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoRefreshToken is returned when no refresh token is persisted or configured.
var ErrNoRefreshToken = errors.New("no refresh token available")

// ErrCredentialStore marks a failure to read or save the persisted
// credential. It is not an AuthError: the provider was not at fault.
var ErrCredentialStore = errors.New("credential store")

// AuthError reports a failed credential exchange. Callers decide whether to
// retry; the search pipeline surfaces it only after every strategy failed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "credential exchange failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransientError reports a retryable failure: 429, 503 or a network error.
type TransientError struct {
	StatusCode int // zero for network errors
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient error (status %d): %v", e.StatusCode, e.Err)
	}
	return "transient error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("MercadoLibre API error (status %d): %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsAuthError reports whether err wraps an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsTransient reports whether err wraps a TransientError.
func IsTransient(err error) bool {
	var tErr *TransientError
	return errors.As(err, &tErr)
}

func asAuthError(err error) error {
	if IsAuthError(err) || errors.Is(err, ErrCredentialStore) {
		return err
	}
	return &AuthError{Err: err}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
