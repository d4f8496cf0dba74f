// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/constants"
	"github.com/taibuivan/plume/internal/platform/middleware"
	requestutil "github.com/taibuivan/plume/internal/platform/request"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] for /api/v1/auth.
//
// # Endpoints
//   - POST /login   : Credentials in, access token and refresh cookie out.
//   - POST /refresh : Rotates the refresh cookie.
//   - POST /logout  : Discards the refresh session.
//   - POST /logout/all : Discards every refresh session of the caller.
//   - GET  /me      : The principal behind the bearer token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	router.With(middleware.RequireAuth).Get("/me", handler.me)
	router.With(middleware.RequireAuth).Post("/logout/all", handler.logoutAll)

	return router
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: access_token, token_type, expires_in, user
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:     input.Login,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, tokenResponse(session, true))
}

/*
POST /api/v1/auth/refresh.

Response:
  - 200: New access token
  - 401: Missing or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token in cookies"))
		return
	}

	session, err := handler.authService.RefreshSession(
		request.Context(),
		cookie.Value,
		request.UserAgent(),
		middleware.RealIP(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, tokenResponse(session, false))
}

/*
POST /api/v1/auth/logout.

Response:
  - 204: Refresh session discarded and cookie cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err == nil && cookie.Value != "" {
		if err := handler.authService.Logout(request.Context(), cookie.Value); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// logoutAll handles POST /api/v1/auth/logout/all.
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.LogoutEverywhere(request.Context(), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
GET /api/v1/auth/me.

Response:
  - 200: Principal (id, username, role)
  - 401: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, principal)
}

func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func setRefreshCookie(writer http.ResponseWriter, value string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func tokenResponse(session *LoginSession, withUser bool) map[string]any {
	payload := map[string]any{
		FieldAccessToken: session.AccessToken.Value,
		FieldTokenType:   TokenType,
		FieldExpiresIn:   int64(session.AccessToken.ExpiresAt.Sub(session.AccessToken.IssuedAt) / time.Second),
	}
	if withUser {
		payload[FieldUser] = session.User
	}
	return payload
}
