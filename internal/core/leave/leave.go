// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leave

import "time"

// Status of a leave request. Transitions are pending → approved|rejected,
// one way, one time.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Kind of leave being requested.
type Kind string

const (
	KindVacation Kind = "vacation"
	KindSick     Kind = "sick"
	KindPersonal Kind = "personal"
	KindUnpaid   Kind = "unpaid"
)

// Request is a leave-of-absence request raised by an employee.
type Request struct {
	ID           int       `json:"id"`
	EmployeeID   int       `json:"employee_id"`
	Kind         Kind      `json:"kind"`
	StartDate    string    `json:"start_date"` // YYYY-MM-DD
	EndDate      string    `json:"end_date"`   // YYYY-MM-DD
	Reason       string    `json:"reason"`
	Status       Status    `json:"status"`
	DecidedBy    *int      `json:"decided_by"` // user id of the decider
	DecisionNote *string   `json:"decision_note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows a paginated leave-request listing.
type Filter struct {
	EmployeeID int
	Status     Status
}

// Global field names for validation
const (
	FieldKind      = "kind"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldReason    = "reason"
	FieldStatus    = "status"
)
