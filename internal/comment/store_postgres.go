// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/plume/internal/platform/database/schema"
	"github.com/taibuivan/plume/internal/platform/dberr"
)

// resourceName is used in client-facing NotFound messages.
const resourceName = "Comment"

// PostgresRepository implements [Repository] on content.comment.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.BlogID, &comment.ParentID, &comment.AuthorName,
		&comment.Body, &comment.Status, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (repository *PostgresRepository) FindComment(context context.Context, id int64) (*Comment, error) {
	table := schema.ContentComment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	comment, err := scanComment(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return comment, nil
}

func (repository *PostgresRepository) SaveComment(context context.Context, comment *Comment) error {
	table := schema.ContentComment

	// ── 1. Insert ─────────────────────────────────────────────────────────
	if comment.ID == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING %s, %s`,
			table.Table, table.BlogID, table.ParentID, table.AuthorName, table.Body, table.Status,
			table.ID, table.CreatedAt,
		)

		err := repository.pool.QueryRow(context, query,
			comment.BlogID, comment.ParentID, comment.AuthorName, comment.Body, string(comment.Status),
		).Scan(&comment.ID, &comment.CreatedAt)

		return dberr.Wrap(err, resourceName)
	}

	// ── 2. Status Overwrite ───────────────────────────────────────────────
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		table.Table, table.Status, table.UpdatedAt,
		table.ID,
		strings.Join(table.Columns(), ", "),
	)

	updated, err := scanComment(repository.pool.QueryRow(context, query, comment.ID, string(comment.Status)))
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}

	*comment = *updated
	return nil
}

func (repository *PostgresRepository) DeleteComment(context context.Context, id int64) (int64, error) {
	table := schema.ContentComment

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// ── 1. Lock the thread root ───────────────────────────────────────────
	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, table.ID, table.Table, table.ID)

	var lockedID int64
	if err := transaction.QueryRow(context, lockQuery, id).Scan(&lockedID); err != nil {
		return 0, dberr.Wrap(err, resourceName)
	}

	// ── 2. Remove the reply subtree ───────────────────────────────────────
	tag, err := transaction.Exec(context, deleteThreadQuery(), id)
	if err != nil {
		return 0, dberr.Wrap(err, resourceName)
	}

	if err := transaction.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres: failed to commit delete transaction: %w", err)
	}

	return tag.RowsAffected(), nil
}

// deleteThreadQuery walks parentid down from $1 and deletes the whole subtree.
func deleteThreadQuery() string {
	table := schema.ContentComment
	return fmt.Sprintf(`
		WITH RECURSIVE thread AS (
			SELECT %[2]s FROM %[1]s WHERE %[2]s = $1
			UNION ALL
			SELECT child.%[2]s FROM %[1]s child JOIN thread ON child.%[3]s = thread.%[2]s
		)
		DELETE FROM %[1]s WHERE %[2]s IN (SELECT %[2]s FROM thread)`,
		table.Table, table.ID, table.ParentID,
	)
}

func (repository *PostgresRepository) FindCommentsByBlog(context context.Context, blogID int64, status *Status) ([]*Comment, error) {
	table := schema.ContentComment
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s IS NULL AND ($2::text IS NULL OR %s = $2)
		ORDER BY %s ASC, %s ASC`,
		strings.Join(table.Columns(), ", "), table.Table,
		table.BlogID, table.ParentID, table.Status,
		table.CreatedAt, table.ID,
	)

	var statusArg *string
	if status != nil {
		value := string(*status)
		statusArg = &value
	}

	return repository.queryComments(context, query, blogID, statusArg)
}

func (repository *PostgresRepository) FindReplies(context context.Context, parentID int64) ([]*Comment, error) {
	table := schema.ContentComment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		strings.Join(table.Columns(), ", "), table.Table, table.ParentID, table.CreatedAt, table.ID)

	return repository.queryComments(context, query, parentID)
}

func (repository *PostgresRepository) queryComments(context context.Context, query string, args ...any) ([]*Comment, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceName)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	return comments, nil
}
