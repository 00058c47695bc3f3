// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import "context"

type Repository interface {
	Create(context context.Context, m *Message) error
	Get(context context.Context, id int) (*Message, error)
	ListInbox(context context.Context, userID, limit, offset int) ([]*Message, int, error)
	ListSent(context context.Context, userID, limit, offset int) ([]*Message, int, error)

	// MarkRead flips the read flag; the recipient guard lives in the query so
	// no one else can mark a message read. Reports whether a row changed.
	MarkRead(context context.Context, id, recipientID int) (bool, error)
}
