// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error currency of the Plume API.

Services and guards return an [*AppError]; respond.Error turns it into the
{error, code, details} envelope. Anything else that reaches a handler is
reported as [CodeInternal] with its cause kept for the logs.

# Taxonomy

  - [CodeUnauthorized] 401: no usable bearer token
  - [CodeForbidden] 403: valid principal, role lacks the action
  - [CodeValidation] 400: malformed input or an orphaned reference
  - [CodeNotFound] 404: the target of an operation is absent
  - [CodeConflict] 409: unique constraint (slug, email)
  - [CodeRateLimited] 429
  - [CodeInternal] 500
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes sent to clients.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError carries a status, a code and a client-safe message.
//
// Cause is for server-side logs only and never serialised.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound reports that resource does not exist, e.g. "Comment not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized is the Unauthenticated outcome of the guard.
func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

// Forbidden is the role-matrix denial.
func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a unique-constraint violation.
func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError reports rejected input, optionally per field.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited is sent by the per-IP limiter.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Helpers

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound is HasCode(err, CodeNotFound).
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
