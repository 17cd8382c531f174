package auth0

import (
	"fmt"
	"net/http"
)

// Kind classifies an authentication or authorization failure
type Kind string

const (
	KindMissingHeader           Kind = "missing_header"
	KindMalformedHeader         Kind = "malformed_header"
	KindInvalidHeader           Kind = "invalid_header"
	KindKeyNotFound             Kind = "key_not_found"
	KindTokenExpired            Kind = "token_expired"
	KindInvalidClaims           Kind = "invalid_claims"
	KindMissingPermissionsClaim Kind = "missing_permissions_claim"
	KindInsufficientPermissions Kind = "insufficient_permissions"
	KindJWKSUnavailable         Kind = "jwks_unavailable"
)

// AuthError is a terminal auth failure. StatusCode is the HTTP status the
// failure maps to and Code is the machine-readable code sent to clients.
type AuthError struct {
	Kind        Kind
	Code        string
	Description string
	StatusCode  int
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so wrapped copies still compare equal to the sentinels
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// wrap returns a copy of e carrying cause
func (e *AuthError) wrap(cause error) *AuthError {
	c := *e
	c.Err = cause
	return &c
}

var (
	ErrMissingHeader = &AuthError{
		Kind:        KindMissingHeader,
		Code:        "authorization_header_missing",
		Description: "Authorization header is expected",
		StatusCode:  http.StatusUnauthorized,
	}

	ErrMalformedHeader = &AuthError{
		Kind:        KindMalformedHeader,
		Code:        "invalid_header",
		Description: "Authorization header must be a bearer token",
		StatusCode:  http.StatusUnauthorized,
	}

	// ErrInvalidHeader is returned when the token header carries no key id
	// or the token cannot be decomposed into header, payload and signature
	ErrInvalidHeader = &AuthError{
		Kind:        KindInvalidHeader,
		Code:        "invalid_header",
		Description: "Malformed authorization",
		StatusCode:  http.StatusUnauthorized,
	}

	// ErrTokenUnparseable is returned for verification failures that are
	// neither expiry nor claim mismatches (bad signature, disallowed alg)
	ErrTokenUnparseable = &AuthError{
		Kind:        KindInvalidHeader,
		Code:        "invalid_header",
		Description: "can't parse authentication token",
		StatusCode:  http.StatusBadRequest,
	}

	ErrKeyNotFound = &AuthError{
		Kind:        KindKeyNotFound,
		Code:        "invalid_header",
		Description: "can't find appropriate key",
		StatusCode:  http.StatusBadRequest,
	}

	ErrTokenExpired = &AuthError{
		Kind:        KindTokenExpired,
		Code:        "token_expired",
		Description: "Expired token",
		StatusCode:  http.StatusUnauthorized,
	}

	ErrInvalidClaims = &AuthError{
		Kind:        KindInvalidClaims,
		Code:        "invalid_claims",
		Description: "incorrect claims",
		StatusCode:  http.StatusUnauthorized,
	}

	ErrMissingPermissionsClaim = &AuthError{
		Kind:        KindMissingPermissionsClaim,
		Code:        "invalid_claims",
		Description: "Permissions not included in JWT",
		StatusCode:  http.StatusUnauthorized,
	}

	ErrInsufficientPermissions = &AuthError{
		Kind:        KindInsufficientPermissions,
		Code:        "unauthorized",
		Description: "Permission not found",
		StatusCode:  http.StatusForbidden,
	}

	ErrJWKSUnavailable = &AuthError{
		Kind:        KindJWKSUnavailable,
		Code:        "jwks_unavailable",
		Description: "unable to fetch signing keys",
		StatusCode:  http.StatusUnauthorized,
	}
)
