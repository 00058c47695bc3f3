// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

const entryColumns = "id, actorid, action, detail, ipaddress, useragent, createdat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Append(context context.Context, e *Entry) error {
	query := `
		INSERT INTO core.access_log (actorid, action, detail, ipaddress, useragent, createdat)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, createdat`

	err := repository.db.QueryRow(context, query,
		e.ActorID, e.Action, e.Detail, e.IPAddress, e.UserAgent,
	).Scan(&e.ID, &e.CreatedAt)
	return dberr.Wrap(err, "append_access_log")
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	query := `SELECT ` + entryColumns + ` FROM core.access_log WHERE 1=1`
	countQuery := `SELECT count(*) FROM core.access_log WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	if f.ActorID > 0 {
		clause := fmt.Sprintf(" AND actorid = $%d", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.ActorID)
		countArgs = append(countArgs, f.ActorID)
	}

	if f.Action != "" {
		clause := fmt.Sprintf(" AND action = $%d", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Action)
		countArgs = append(countArgs, f.Action)
	}

	query += " ORDER BY createdat DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_access_log")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_access_log")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Detail, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_access_log")
		}
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}
