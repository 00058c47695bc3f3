// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

const notificationColumns = "id, userid, kind, body, acknowledged, createdat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, n *Notification) error {
	query := `
		INSERT INTO core.notification (userid, kind, body, acknowledged, createdat)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING id, createdat`

	err := repository.db.QueryRow(context, query, n.UserID, n.Kind, n.Body).
		Scan(&n.ID, &n.CreatedAt)
	return dberr.Wrap(err, "create_notification")
}

func (repository *PostgresRepository) ListForUser(context context.Context, userID, limit, offset int) ([]*Notification, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM core.notification WHERE userid = $1`
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_notifications")
	}

	query := `SELECT ` + notificationColumns + ` FROM core.notification WHERE userid = $1 ORDER BY createdat DESC LIMIT $2 OFFSET $3`
	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notifications")
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Body, &n.Acknowledged, &n.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_notification")
		}
		notifications = append(notifications, n)
	}

	return notifications, total, rows.Err()
}

func (repository *PostgresRepository) Acknowledge(context context.Context, id, userID int) (bool, error) {
	query := `UPDATE core.notification SET acknowledged = TRUE WHERE id = $1 AND userid = $2`

	cmd, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return false, dberr.Wrap(err, "acknowledge_notification")
	}
	return cmd.RowsAffected() > 0, nil
}
