// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

// hiredate is cast to text so the ISO string maps straight onto the entity.
const employeeColumns = "id, userid, email, fullname, position, department, phone, hiredate::text, createdat, updatedat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanEmployee(row interface{ Scan(...any) error }) (*Employee, error) {
	e := &Employee{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.Email, &e.FullName, &e.Position,
		&e.Department, &e.Phone, &e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, sort string, limit, offset int) ([]*Employee, int, error) {
	query := `SELECT ` + employeeColumns + ` FROM core.employee WHERE 1=1`
	countQuery := `SELECT count(*) FROM core.employee WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		clause := fmt.Sprintf(" AND (fullname ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.Department != "" {
		clause := fmt.Sprintf(" AND department = $%d", len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Department)
		countArgs = append(countArgs, f.Department)
	}

	orderBy := "createdat DESC"
	if column, ok := sortColumns[sort]; ok {
		orderBy = column + " ASC"
	}
	query += " ORDER BY " + orderBy + " LIMIT $" + itos(len(args)+1) + " OFFSET $" + itos(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_employees")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_employees")
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_employee")
		}
		employees = append(employees, e)
	}

	return employees, total, rows.Err()
}

func (repository *PostgresRepository) Get(context context.Context, id int) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM core.employee WHERE id = $1`

	e, err := scanEmployee(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_employee")
	}
	return e, nil
}

func (repository *PostgresRepository) FindByUserID(context context.Context, userID int) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM core.employee WHERE userid = $1`

	e, err := scanEmployee(repository.db.QueryRow(context, query, userID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_employee_by_user")
	}
	return e, nil
}

func (repository *PostgresRepository) Create(context context.Context, e *Employee) error {
	query := `
		INSERT INTO core.employee (userid, email, fullname, position, department, phone, hiredate, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		e.UserID, e.Email, e.FullName, e.Position, e.Department, e.Phone, e.HireDate,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return dberr.WrapConflict(err, "create_employee", "An employee record with this email already exists")
}

func (repository *PostgresRepository) Update(context context.Context, e *Employee) error {
	query := `
		UPDATE core.employee
		SET email = $2, fullname = $3, position = $4, department = $5, phone = $6, hiredate = $7, updatedat = NOW()
		WHERE id = $1
		RETURNING updatedat`

	err := repository.db.QueryRow(context, query,
		e.ID, e.Email, e.FullName, e.Position, e.Department, e.Phone, e.HireDate,
	).Scan(&e.UpdatedAt)
	return dberr.Wrap(err, "update_employee")
}

func (repository *PostgresRepository) Delete(context context.Context, id int) error {
	cmd, err := repository.db.Exec(context, `DELETE FROM core.employee WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_employee")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ClaimByEmail(context context.Context, userID int, email string) (*Employee, error) {
	query := `
		UPDATE core.employee
		SET userid = $1, updatedat = NOW()
		WHERE email = $2 AND userid IS NULL
		RETURNING ` + employeeColumns

	e, err := scanEmployee(repository.db.QueryRow(context, query, userID, email))
	if err != nil {
		return nil, dberr.Wrap(err, "claim_employee_by_email")
	}
	return e, nil
}

func (repository *PostgresRepository) Provision(context context.Context, e *Employee) error {
	// The unique index on userid settles concurrent first-writes: the loser's
	// upsert degrades to a no-op update and reads back the winner's row.
	query := `
		INSERT INTO core.employee (userid, email, fullname, position, department, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (userid) DO UPDATE SET updatedat = NOW()
		RETURNING ` + employeeColumns

	resolved, err := scanEmployee(repository.db.QueryRow(context, query,
		e.UserID, e.Email, e.FullName, e.Position, e.Department,
	))
	if err != nil {
		return dberr.Wrap(err, "provision_employee")
	}

	*e = *resolved
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
