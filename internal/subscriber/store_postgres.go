// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/plume/internal/platform/database/schema"
	"github.com/taibuivan/plume/internal/platform/dberr"
)

const resourceName = "Subscriber"

// PostgresRepository implements [Repository] on content.subscriber.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, subscriber *Subscriber) error {
	table := schema.ContentSubscriber
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING %s, %s`,
		table.Table, table.Email, table.ID, table.CreatedAt)

	err := repository.db.QueryRow(context, query, subscriber.Email).Scan(&subscriber.ID, &subscriber.CreatedAt)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Subscriber, int, error) {
	table := schema.ContentSubscriber

	var total int
	if err := repository.db.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	subscribers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Subscriber, error) {
		subscriber := &Subscriber{}
		err := row.Scan(&subscriber.ID, &subscriber.Email, &subscriber.CreatedAt)
		return subscriber, err
	})
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return subscribers, total, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.ContentSubscriber
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}
