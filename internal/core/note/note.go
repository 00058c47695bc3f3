// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import "time"

// Note is an internal annotation attached to an employee record, visible to
// the management tier only.
type Note struct {
	ID         int       `json:"id"`
	EmployeeID int       `json:"employee_id"`
	AuthorID   int       `json:"author_id"` // user id of the writer
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	FieldBody = "body"
)
