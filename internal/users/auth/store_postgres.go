// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/database/schema"
	"github.com/taibuivan/plume/internal/platform/dberr"
	"github.com/taibuivan/plume/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) selectUser(context context.Context, where string, arg any) (*User, error) {
	table := schema.UsersAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s AND %s`,
		strings.Join(table.Columns(), ", "), table.Table, where, table.IsActive)

	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindByID retrieves an active account by primary key.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	// A malformed id would otherwise surface as a uuid cast error.
	canonical, ok := uuid.Parse(id)
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return repository.selectUser(context, schema.UsersAccount.ID+" = $1", canonical)
}

/*
FindByLogin retrieves an active account by email or username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	table := schema.UsersAccount
	where := fmt.Sprintf(`(lower(%s) = lower($1) OR lower(%s) = lower($1))`, table.Email, table.Username)
	return repository.selectUser(context, where, login)
}

// TouchLastLogin stamps the last successful sign-in.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	table := schema.UsersAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, table.Table, table.LastLoginAt, table.ID)

	if _, err := repository.pool.Exec(context, query, id, at); err != nil {
		return dberr.Wrap(err, "User")
	}
	return nil
}
