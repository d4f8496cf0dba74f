// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Session Constraints

const (
	// RefreshTokenTTL bounds how long a signed-in browser can keep rotating.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// TokenType is the scheme clients must use with the access token.
	TokenType = "Bearer"
)
