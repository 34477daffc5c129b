package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound = errors.New("resource not found") // General not found

	// Authorization Errors
	ErrUnauthorized = errors.New("unauthorized") // Write credential missing or wrong
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission (ownership mismatch)

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")

	// Upstream Errors (content service unreachable from the web app side)
	ErrUpstreamUnavailable = errors.New("content service unavailable")
)
