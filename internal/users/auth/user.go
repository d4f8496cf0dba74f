// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements staff sign-in and the refresh-session lifecycle.

Access tokens are stateless and issued by [sec.TokenService]. Refresh tokens
are opaque random strings whose SHA-256 hash is kept in Redis, so a session
can be rotated or discarded without touching the access token.

# Architecture

Logging out deletes the refresh session only. An access token that was
already handed out stays valid until it expires.
*/
package auth

import (
	"time"

	"github.com/taibuivan/plume/internal/platform/sec"
)

// # Domain Entities

// User is a staff or member account able to sign in.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Principal projects the account onto the identity carried by access tokens.
func (u *User) Principal() *sec.Principal {
	return &sec.Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Session is an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldLogin       = "login"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)
