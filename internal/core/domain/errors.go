package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginPending       = errors.New("login already in progress")
	ErrUnknownRole        = errors.New("unknown role")
	ErrMalformedSession   = errors.New("malformed session")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
)
