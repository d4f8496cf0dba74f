// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs access tokens for a principal.
//
// Implemented by [*sec.TokenService].
type TokenIssuer interface {
	Issue(principal *sec.Principal) (*sec.Token, error)
}

// Service implements sign-in and refresh-session use cases.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenIssuer       TokenIssuer
	now               func() time.Time
}

// NewService constructs a new auth [Service].
func NewService(userRepo UserRepository, sessionRepo SessionRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenIssuer:       issuer,
		now:               time.Now,
	}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login     string // Username or email
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is a freshly established or rotated session.
type LoginSession struct {
	AccessToken           *sec.Token
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// # Authentication Flow

/*
Login validates credentials and issues an access token plus a refresh token.

Description: Unknown accounts and wrong passwords produce the same
Unauthorized error so that logins cannot be enumerated.

Returns:
  - *LoginSession: Access and refresh credentials
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByLogin(context, strings.TrimSpace(input.Login))
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		sec.VerifyPassword(input.Password, "")
		logger.InfoContext(context, "login_failed", slog.String("reason", "unknown_account"))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !sec.VerifyPassword(input.Password, user.PasswordHash) {
		logger.InfoContext(context, "login_failed", slog.String("reason", "bad_password"), slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	session, err := service.openSession(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID, service.now()); err != nil {
		logger.WarnContext(context, "login_touch_failed", slog.Any("error", err))
	}

	logger.InfoContext(context, "login_succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return session, nil
}

/*
Logout discards the refresh session behind refreshToken.

Description: Idempotent. Access tokens already issued stay valid until they
expire.
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessionRepository.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "logout", slog.String("user_id", session.UserID))
	return nil
}

/*
LogoutEverywhere discards every refresh session of the principal, forcing
each device to sign in again once its access token expires.
*/
func (service *Service) LogoutEverywhere(context context.Context, principal *sec.Principal) error {
	if principal.IsAnonymous() {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.sessionRepository.DeleteAll(context, principal.ID); err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "logout_everywhere", slog.String("user_id", principal.ID))
	return nil
}

// # Session Management

/*
RefreshSession implements refresh-token rotation.

Description: The presented refresh token is consumed and replaced, and a new
access token is issued with the account's current role.

Returns:
  - *LoginSession: Rotated credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	// Rotation: the old token is consumed atomically and can never be replayed.
	session, err := service.sessionRepository.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_consume_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.openSession(context, user, userAgent, ipAddress)
}

// openSession issues an access token and stores a new refresh session.
func (service *Service) openSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokenIssuer.Issue(user.Principal())
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	now := service.now()
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: now.Add(RefreshTokenTTL),
		CreatedAt: now,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}
