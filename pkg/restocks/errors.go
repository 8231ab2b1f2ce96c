package restocks

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers match with errors.Is.
var (
	// ErrNotAuthenticated is returned when a login-required operation is
	// invoked without an authenticated session. No network call is made.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the server invalidates the
	// session mid-use. The client also downgrades its session state.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound is returned when the marketplace has no entity for the
	// given identifier, including listings not owned by this account.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousResult is returned when a name search matches several
	// products and none can be singled out.
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrInvalidSize is returned when the marketplace does not recognize
	// a size label for the given product.
	ErrInvalidSize = errors.New("invalid size")
)

// ConfigError reports invalid client configuration, such as a malformed
// proxy entry. Construction fails fast with this error.
type ConfigError struct {
	Entry  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Entry, e.Reason)
}

// NetworkError reports a transport-level failure (DNS, refused connection,
// proxy auth, timeout). It is distinct from a valid HTTP response carrying
// an error status.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError reports rejected credentials during login.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.Status)
	}
	return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Message)
}

// APIError carries a business error reported by the marketplace, with the
// vendor's own code and message verbatim.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("restocks API error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("restocks API error (status %d): %s", e.Status, e.Message)
}

// MalformedResponseError reports a 2xx response whose payload does not
// match the expected shape: contract drift with the vendor rather than a
// business error.
type MalformedResponseError struct {
	Shape  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s", e.Shape, e.Reason)
}

// ValidationError reports caller input that violates an operation
// precondition before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
