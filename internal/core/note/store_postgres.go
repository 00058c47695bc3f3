// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

const noteColumns = "id, employeeid, authorid, body, createdat, updatedat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByEmployee(context context.Context, employeeID, limit, offset int) ([]*Note, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM core.note WHERE employeeid = $1`
	if err := repository.db.QueryRow(context, countQuery, employeeID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_notes")
	}

	query := `SELECT ` + noteColumns + ` FROM core.note WHERE employeeid = $1 ORDER BY createdat DESC LIMIT $2 OFFSET $3`
	rows, err := repository.db.Query(context, query, employeeID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notes")
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n := &Note{}
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.AuthorID, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_note")
		}
		notes = append(notes, n)
	}

	return notes, total, rows.Err()
}

func (repository *PostgresRepository) Get(context context.Context, id int) (*Note, error) {
	query := `SELECT ` + noteColumns + ` FROM core.note WHERE id = $1`

	n := &Note{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&n.ID, &n.EmployeeID, &n.AuthorID, &n.Body, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_note")
	}
	return n, nil
}

func (repository *PostgresRepository) Create(context context.Context, n *Note) error {
	query := `
		INSERT INTO core.note (employeeid, authorid, body, createdat, updatedat)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	err := repository.db.QueryRow(context, query, n.EmployeeID, n.AuthorID, n.Body).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	return dberr.Wrap(err, "create_note")
}

func (repository *PostgresRepository) Update(context context.Context, n *Note) error {
	query := `
		UPDATE core.note
		SET body = $2, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query, n.ID, n.Body).Scan(&n.UpdatedAt)
	return dberr.Wrap(err, "update_note")
}

func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM core.note WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_note")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
