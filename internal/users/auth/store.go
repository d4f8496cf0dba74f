// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr NotFound if missing
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByLogin returns the account whose email or username equals login
		(case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: apperr NotFound if missing
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		TouchLastLogin records a successful sign-in.
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Session Data Access

// SessionRepository defines the storage contract for refresh sessions.
type SessionRepository interface {

	/*
		Create stores a session until its ExpiresAt.
	*/
	Create(context context.Context, session *Session) error

	/*
		Consume removes and returns the session behind tokenHash in one step.

		Returns:
		  - *Session: The consumed session
		  - error: apperr NotFound if absent, expired or already consumed
	*/
	Consume(context context.Context, tokenHash string) (*Session, error)

	/*
		DeleteAll removes every session of userID.
	*/
	DeleteAll(context context.Context, userID string) error
}
