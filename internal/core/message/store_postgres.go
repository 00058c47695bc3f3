// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/staffhub/internal/platform/dberr"
)

const messageColumns = "id, senderid, recipientid, subject, body, isread, createdat"

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, m *Message) error {
	query := `
		INSERT INTO core.message (senderid, recipientid, subject, body, isread, createdat)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, createdat`

	err := repository.db.QueryRow(context, query, m.SenderID, m.RecipientID, m.Subject, m.Body).
		Scan(&m.ID, &m.CreatedAt)
	return dberr.Wrap(err, "create_message")
}

func (repository *PostgresRepository) Get(context context.Context, id int) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM core.message WHERE id = $1`

	m := &Message{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.Read, &m.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_message")
	}
	return m, nil
}

func (repository *PostgresRepository) ListInbox(context context.Context, userID, limit, offset int) ([]*Message, int, error) {
	return repository.list(context, "recipientid", userID, limit, offset)
}

func (repository *PostgresRepository) ListSent(context context.Context, userID, limit, offset int) ([]*Message, int, error) {
	return repository.list(context, "senderid", userID, limit, offset)
}

func (repository *PostgresRepository) list(context context.Context, column string, userID, limit, offset int) ([]*Message, int, error) {
	var total int
	countQuery := `SELECT count(*) FROM core.message WHERE ` + column + ` = $1`
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_messages")
	}

	query := `SELECT ` + messageColumns + ` FROM core.message WHERE ` + column + ` = $1 ORDER BY createdat DESC LIMIT $2 OFFSET $3`
	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_messages")
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_message")
		}
		messages = append(messages, m)
	}

	return messages, total, rows.Err()
}

func (repository *PostgresRepository) MarkRead(context context.Context, id, recipientID int) (bool, error) {
	// Recipient guard in the WHERE clause; re-marking a read message still
	// matches, keeping the operation idempotent.
	query := `UPDATE core.message SET isread = TRUE WHERE id = $1 AND recipientid = $2`

	cmd, err := repository.db.Exec(context, query, id, recipientID)
	if err != nil {
		return false, dberr.Wrap(err, "mark_message_read")
	}
	return cmd.RowsAffected() > 0, nil
}
