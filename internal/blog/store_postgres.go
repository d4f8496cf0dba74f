// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/plume/internal/platform/database/schema"
	"github.com/taibuivan/plume/internal/platform/dberr"
)

// resourceName is used in client-facing NotFound and Conflict messages.
const resourceName = "Blog"

// PostgresRepository implements [Repository] on a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	blog := &Blog{}
	err := row.Scan(
		&blog.ID, &blog.Title, &blog.Slug, &blog.Summary, &blog.Body,
		&blog.AuthorID, &blog.CreatedAt, &blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return blog, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Blog, int, error) {
	table := schema.ContentBlog

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		strings.Join(table.Columns(), ", "), table.Table, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	blogs := make([]*Blog, 0, limit)
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return blogs, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Blog, error) {
	table := schema.ContentBlog
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	blog, err := scanBlog(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return blog, nil
}

func (repository *PostgresRepository) Create(context context.Context, blog *Blog) error {
	table := schema.ContentBlog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s, %s`,
		table.Table, table.Title, table.Slug, table.Summary, table.Body, table.AuthorID,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		blog.Title, blog.Slug, blog.Summary, blog.Body, blog.AuthorID,
	).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)

	return dberr.Wrap(err, resourceName)
}
