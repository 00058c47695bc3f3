// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import "time"

// Employee represents a staff member's administrative record.
//
// UserID links the record to a login account. It is nullable: records can be
// created by a manager before the person ever signs in, and are claimed by
// email match on first self-service access.
type Employee struct {
	ID         int       `json:"id"`
	UserID     *int      `json:"user_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Phone      *string   `json:"phone"`
	HireDate   *string   `json:"hire_date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated employee search.
type Filter struct {
	Query      string // ILIKE against full name and email
	Department string
}

// Sort whitelist: anything else falls back to newest-first.
var sortColumns = map[string]string{
	"created_at": "createdat",
	"full_name":  "fullname",
	"hire_date":  "hiredate",
	"department": "department",
}

// Global field names for validation
const (
	FieldEmail      = "email"
	FieldFullName   = "full_name"
	FieldPosition   = "position"
	FieldDepartment = "department"
	FieldPhone      = "phone"
	FieldHireDate   = "hire_date"
)
