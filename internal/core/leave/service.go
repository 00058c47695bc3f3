// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/staffhub/internal/core/employee"
	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/validate"
)

// EmployeeResolver resolves (and auto-provisions) the caller's own employee
// record, so a brand-new account can raise its first leave request without a
// manager having created a record for it.
type EmployeeResolver interface {
	ResolveOwned(ctx context.Context, userID int, email string) (*employee.Employee, error)
}

// Notifier fans a decision out to the request owner. Implementations are
// best-effort; a failed notification never fails the decision.
type Notifier interface {
	NotifyEmployee(ctx context.Context, employeeID int, kind, body string)
}

// Auditor appends access-log entries. Best-effort by contract.
type Auditor interface {
	Record(ctx context.Context, actorID int, action, detail, ipAddress, userAgent string)
}

type Service struct {
	repo      Repository
	employees EmployeeResolver
	notifier  Notifier
	audit     Auditor
	logger    *slog.Logger
}

func NewService(repo Repository, employees EmployeeResolver, notifier Notifier, audit Auditor, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		notifier:  notifier,
		audit:     audit,
		logger:    logger,
	}
}

// CreateInput carries a new leave request from the authenticated caller.
type CreateInput struct {
	Kind      string
	StartDate string
	EndDate   string
	Reason    string
}

func (service *Service) CreateRequest(context context.Context, userID int, email string, input CreateInput) (*Request, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldKind, input.Kind,
		string(KindVacation), string(KindSick), string(KindPersonal), string(KindUnpaid)).
		Required(FieldStartDate, input.StartDate).
		Date(FieldStartDate, input.StartDate).
		Required(FieldEndDate, input.EndDate).
		Date(FieldEndDate, input.EndDate).
		DateOrder(FieldEndDate, input.StartDate, input.EndDate).
		MaxLen(FieldReason, input.Reason, 1000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Two independent statements; the employee unique owner-link index covers
	// the provision race.
	record, err := service.employees.ResolveOwned(context, userID, email)
	if err != nil {
		return nil, err
	}

	request := &Request{
		EmployeeID: record.ID,
		Kind:       Kind(input.Kind),
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Reason:     input.Reason,
		Status:     StatusPending,
	}
	if err := service.repo.Create(context, request); err != nil {
		return nil, err
	}

	service.logger.Info("leave_request_created",
		slog.Int("leave_id", request.ID),
		slog.Int("employee_id", record.ID),
	)
	return request, nil
}

// ListOwn returns the caller's own leave requests.
func (service *Service) ListOwn(context context.Context, userID int, email string, limit, offset int) ([]*Request, int, error) {
	record, err := service.employees.ResolveOwned(context, userID, email)
	if err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, Filter{EmployeeID: record.ID}, limit, offset)
}

// ListAll returns leave requests across all employees, optionally narrowed
// by status.
func (service *Service) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Request, int, error) {
	if filter.Status != "" {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, string(filter.Status),
			string(StatusPending), string(StatusApproved), string(StatusRejected))
		if err := validator.Err(); err != nil {
			return nil, 0, err
		}
	}
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) GetRequest(context context.Context, id int) (*Request, error) {
	return service.repo.Get(context, id)
}

// Decide approves or rejects a pending request, recording the decider and an
// optional note, and fans a notification out to the request owner.
//
// Requests that are not pending anymore cannot be re-decided (422).
func (service *Service) Decide(context context.Context, id int, status Status, deciderID int, note *string) (*Request, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, validate.RequiredError(FieldStatus, "Must be approved or rejected")
	}

	request, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	transitioned, err := service.repo.Decide(context, id, status, deciderID, note)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperr.Unprocessable("Leave request has already been decided")
	}

	service.logger.Info("leave_request_decided",
		slog.Int("leave_id", id),
		slog.String("status", string(status)),
		slog.Int("decider_id", deciderID),
	)
	service.audit.Record(context, deciderID, "leave.decided",
		fmt.Sprintf("leave=%d status=%s", id, status), "", "")

	service.notifyOwner(context, request, status)

	return service.repo.Get(context, id)
}

func (service *Service) notifyOwner(context context.Context, request *Request, status Status) {
	body := fmt.Sprintf("Your leave request #%d (%s to %s) was %s.",
		request.ID, request.StartDate, request.EndDate, status)
	service.notifier.NotifyEmployee(context, request.EmployeeID, "leave."+string(status), body)
}
