// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/plume/internal/platform/ctxkey"
	"github.com/taibuivan/plume/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser returns a new context with the resolved principal attached.
func WithAuthUser(ctx context.Context, principal *sec.Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, principal)
}

// GetAuthUser retrieves the authenticated [*sec.Principal] from the context.
// Returns nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(ctxkey.KeyUser).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}

// GetPrincipal is like [GetAuthUser] but never returns nil: anonymous
// requests resolve to [sec.Anonymous].
func GetPrincipal(ctx context.Context) *sec.Principal {
	if principal := GetAuthUser(ctx); principal != nil {
		return principal
	}
	return sec.Anonymous()
}

// WithAuthFailure records why a supplied bearer token was rejected.
func WithAuthFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuthFailure, err)
}

// GetAuthFailure returns the recorded token rejection, or nil.
func GetAuthFailure(ctx context.Context) error {
	err, _ := ctx.Value(ctxkey.KeyAuthFailure).(error)
	return err
}
