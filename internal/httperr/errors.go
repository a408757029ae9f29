// Package httperr holds the sentinel errors every service returns and
// handlers translate to HTTP statuses.
package httperr

import "errors"

var (
	ErrValidation         = errors.New("missing required field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access denied: admins only")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("email already in use")
	ErrInvalidPassword    = errors.New("invalid geocache password")
)
