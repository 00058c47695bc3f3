// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import (
	"context"
	"log/slog"

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

func (service *Service) ListByEmployee(context context.Context, employeeID, limit, offset int) ([]*Note, int, error) {
	return service.repo.ListByEmployee(context, employeeID, limit, offset)
}

func (service *Service) CreateNote(context context.Context, note *Note) error {
	validator := &validate.Validator{}
	validator.Required(FieldBody, note.Body).MaxLen(FieldBody, note.Body, 4000)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, note); err != nil {
		return err
	}

	service.logger.Info("note_created",
		slog.Int("note_id", note.ID),
		slog.Int("employee_id", note.EmployeeID),
	)
	return nil
}

func (service *Service) UpdateNote(context context.Context, id int, body string) (*Note, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body).MaxLen(FieldBody, body, 4000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	note, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	note.Body = body
	if err := service.repo.Update(context, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (service *Service) DeleteNote(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("note_deleted", slog.Int("note_id", id))
	return nil
}
