// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import "context"

type Repository interface {
	Create(context context.Context, n *Notification) error
	ListForUser(context context.Context, userID, limit, offset int) ([]*Notification, int, error)

	// Acknowledge flips the flag for the owner only; reports whether a row matched.
	Acknowledge(context context.Context, id, userID int) (bool, error)
}
