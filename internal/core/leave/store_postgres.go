// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leave

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

// Date columns are cast to text so the ISO strings map straight onto the entity.
const leaveColumns = "id, employeeid, kind, startdate::text, enddate::text, reason, status, decidedby, decisionnote, createdat, updatedat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*Request, error) {
	r := &Request{}
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Kind, &r.StartDate, &r.EndDate, &r.Reason,
		&r.Status, &r.DecidedBy, &r.DecisionNote, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	query := `SELECT ` + leaveColumns + ` FROM core.leave_request WHERE 1=1`
	countQuery := `SELECT count(*) FROM core.leave_request WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	if f.EmployeeID > 0 {
		clause := fmt.Sprintf(" AND employeeid = $%d", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.EmployeeID)
		countArgs = append(countArgs, f.EmployeeID)
	}

	if f.Status != "" {
		clause := fmt.Sprintf(" AND status = $%d", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Status)
		countArgs = append(countArgs, f.Status)
	}

	query += " ORDER BY createdat DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_leave_requests")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_leave_requests")
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_leave_request")
		}
		requests = append(requests, r)
	}

	return requests, total, rows.Err()
}

func (repository *PostgresRepository) Get(context context.Context, id int) (*Request, error) {
	query := `SELECT ` + leaveColumns + ` FROM core.leave_request WHERE id = $1`

	r, err := scanRequest(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_leave_request")
	}
	return r, nil
}

func (repository *PostgresRepository) Create(context context.Context, r *Request) error {
	query := `
		INSERT INTO core.leave_request (employeeid, kind, startdate, enddate, reason, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		r.EmployeeID, r.Kind, r.StartDate, r.EndDate, r.Reason, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	return dberr.Wrap(err, "create_leave_request")
}

func (repository *PostgresRepository) Decide(context context.Context, id int, status Status, deciderID int, note *string) (bool, error) {
	// The pending guard in the WHERE clause makes the transition atomic:
	// concurrent deciders cannot both flip the same request.
	query := `
		UPDATE core.leave_request
		SET status = $2, decidedby = $3, decisionnote = $4, updatedat = NOW()
		WHERE id = $1 AND status = 'pending'`

	cmd, err := repository.db.Exec(context, query, id, status, deciderID, note)
	if err != nil {
		return false, dberr.Wrap(err, "decide_leave_request")
	}
	return cmd.RowsAffected() > 0, nil
}
