// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import "time"

// Notification is an in-app event addressed to a user account. Creation is
// internal (leave decisions); users can only list and acknowledge their own.
type Notification struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Kind         string    `json:"kind"`
	Body         string    `json:"body"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}
