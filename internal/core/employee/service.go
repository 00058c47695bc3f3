// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

import (
	"context"
	"log/slog"

	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListEmployees(context context.Context, filter Filter, sort string, limit, offset int) ([]*Employee, int, error) {
	return service.repo.List(context, filter, sort, limit, offset)
}

func (service *Service) GetEmployee(context context.Context, id int) (*Employee, error) {
	return service.repo.Get(context, id)
}

func (service *Service) CreateEmployee(context context.Context, employee *Employee) error {
	if err := validateEmployee(employee); err != nil {
		return err
	}

	if err := service.repo.Create(context, employee); err != nil {
		return err
	}

	service.logger.Info("employee_created",
		slog.Int("employee_id", employee.ID),
		slog.String("email", employee.Email),
	)
	return nil
}

func (service *Service) UpdateEmployee(context context.Context, id int, employee *Employee) error {
	employee.ID = id
	if err := validateEmployee(employee); err != nil {
		return err
	}

	if err := service.repo.Update(context, employee); err != nil {
		return err
	}

	service.logger.Info("employee_updated", slog.Int("employee_id", employee.ID))
	return nil
}

func (service *Service) DeleteEmployee(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("employee_deleted", slog.Int("employee_id", id))
	return nil
}

// ResolveOwned returns the caller's own employee record, creating one when
// none exists yet.
//
// Resolution order: owner link, then claim of an unowned record with the
// account's email, then provision with conservative defaults. A concurrent
// first-write by the same caller is settled by the unique owner-link index;
// the loser reads back the winner's row.
//
// An email already attached to a record owned by a different account cannot
// be claimed or re-provisioned; that resolves to a conflict a manager has to
// untangle by re-pointing the record's email.
func (service *Service) ResolveOwned(context context.Context, userID int, email string) (*Employee, error) {
	record, err := service.repo.FindByUserID(context, userID)
	if err == nil {
		return record, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	record, err = service.repo.ClaimByEmail(context, userID, email)
	if err == nil {
		service.logger.Info("employee_claimed",
			slog.Int("employee_id", record.ID),
			slog.Int("user_id", userID),
		)
		return record, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	record = &Employee{
		UserID:   &userID,
		Email:    email,
		FullName: email,
	}
	if err := service.repo.Provision(context, record); err != nil {
		if apperr.IsConflict(err) {
			service.logger.Warn("employee_email_owned_elsewhere",
				slog.Int("user_id", userID),
				slog.String("email", email),
			)
			return nil, apperr.Conflict("An employee record with this email is linked to another account")
		}
		return nil, err
	}

	service.logger.Info("employee_provisioned",
		slog.Int("employee_id", record.ID),
		slog.Int("user_id", userID),
	)
	return record, nil
}

// UpdateOwned applies self-service edits to the caller's own record. Contact
// fields only; position, department, and the email link stay manager-managed.
func (service *Service) UpdateOwned(context context.Context, userID int, email string, input *Employee) (*Employee, error) {
	record, err := service.ResolveOwned(context, userID, email)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 200)
	if input.Phone != nil {
		validator.MaxLen(FieldPhone, *input.Phone, 40)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	record.FullName = input.FullName
	record.Phone = input.Phone

	if err := service.repo.Update(context, record); err != nil {
		return nil, err
	}

	return record, nil
}

// OwnerUserID returns the login account linked to an employee record, or nil
// when the record is unclaimed.
func (service *Service) OwnerUserID(context context.Context, employeeID int) (*int, error) {
	record, err := service.repo.Get(context, employeeID)
	if err != nil {
		return nil, err
	}
	return record.UserID, nil
}

func validateEmployee(employee *Employee) error {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, employee.Email).
		Email(FieldEmail, employee.Email).
		Required(FieldFullName, employee.FullName).
		MaxLen(FieldFullName, employee.FullName, 200).
		MaxLen(FieldPosition, employee.Position, 120).
		MaxLen(FieldDepartment, employee.Department, 120)
	if employee.Phone != nil {
		validator.MaxLen(FieldPhone, *employee.Phone, 40)
	}
	if employee.HireDate != nil {
		validator.Date(FieldHireDate, *employee.HireDate)
	}
	return validator.Err()
}
