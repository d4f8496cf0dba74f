// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/constants"
	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Implemented by [*sec.TokenService]; tests substitute a stub.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.Principal, error)
}

// Authorizer decides whether a role may perform an action.
//
// Implemented by [*sec.Matrix].
type Authorizer interface {
	IsAllowed(role sec.UserRole, action sec.Action) bool
}

// # Authentication

// Authenticate resolves the bearer token into a [sec.Principal].
//
// # Flow
//  1. No 'Authorization' header: the request proceeds as anonymous.
//  2. Header present but unusable: the verification error is recorded in the
//     context and the request proceeds as anonymous.
//  3. Valid token: the principal is injected for downstream handlers.
//
// Rejection happens later, in [RequirePermission]. Public endpoints therefore
// keep working for callers holding a stale token.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := request.Context()

			// ── 2. Token Verification ─────────────────────────────────────────
			principal, err := verifier.Verify(BearerToken(authHeader))
			if err != nil {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "auth_token_rejected",
					slog.String("reason", sec.FailureReason(err)),
				)
				next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthFailure(ctx, err)))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(ctx, principal)))
		})
	}
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>" value.
// Values without the Bearer scheme are returned unchanged so verification
// reports them as malformed.
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return header
	}
	return strings.TrimSpace(token)
}

// # Authorization Guard

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()).IsAnonymous() {
			rejectUnauthenticated(writer, request, "")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission guards a route with the compiled-in role matrix.
func RequirePermission(action sec.Action) func(http.Handler) http.Handler {
	return Authorize(sec.DefaultMatrix(), action)
}

// Authorize is the server-side Authorization Guard.
//
// # Flow
//  1. Authenticate: no verified principal → 401, request terminates.
//  2. Authorize: role lacks action in the matrix → 403, request terminates.
//  3. Otherwise the request reaches the handler with the principal attached.
//
// Both failure paths are side-effect free apart from logging.
func Authorize(authorizer Authorizer, action sec.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal.IsAnonymous() {
				rejectUnauthenticated(writer, request, action)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !authorizer.IsAllowed(principal.Role, action) {
				ctx := request.Context()
				ctxutil.GetLogger(ctx).WarnContext(ctx, "authz_denied",
					slog.String("user_id", principal.ID),
					slog.String("role", string(principal.Role)),
					slog.String("action", string(action)),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// rejectUnauthenticated writes a 401 and logs whether the token was missing or bad.
func rejectUnauthenticated(writer http.ResponseWriter, request *http.Request, action sec.Action) {
	ctx := request.Context()

	reason := sec.FailureReason(sec.ErrTokenMissing)
	if failure := ctxutil.GetAuthFailure(ctx); failure != nil {
		reason = sec.FailureReason(failure)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "authn_required",
		slog.String("reason", reason),
		slog.String("action", string(action)),
	)
	respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
}
