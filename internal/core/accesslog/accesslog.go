// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog

import "time"

// Entry is one append-only audit record of a security-relevant action.
type Entry struct {
	ID        int       `json:"id"`
	ActorID   *int      `json:"actor_id"` // nil for anonymous actions
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a paginated audit listing.
type Filter struct {
	ActorID int
	Action  string
}
