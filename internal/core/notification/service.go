// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/constants"
	"github.com/taibuivan/staffhub/internal/platform/queue"
)

// EmployeeDirectory resolves an employee record to its owning login account.
type EmployeeDirectory interface {
	OwnerUserID(ctx context.Context, employeeID int) (*int, error)
}

type Service struct {
	repo      Repository
	employees EmployeeDirectory
	publisher *queue.Publisher
	logger    *slog.Logger
}

// NewService constructs the notification service. publisher may be nil; the
// AMQP fan-out is then skipped entirely.
func NewService(repo Repository, employees EmployeeDirectory, publisher *queue.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		publisher: publisher,
		logger:    logger,
	}
}

// createdEvent is the wire shape published to the notification queue.
type createdEvent struct {
	NotificationID int       `json:"notification_id"`
	UserID         int       `json:"user_id"`
	Kind           string    `json:"kind"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notify creates an in-app notification for a user and best-effort publishes
// a queue event for out-of-process delivery. Publish failures are logged and
// swallowed.
func (service *Service) Notify(context context.Context, userID int, kind, body string) error {
	notification := &Notification{
		UserID: userID,
		Kind:   kind,
		Body:   body,
	}
	if err := service.repo.Create(context, notification); err != nil {
		return err
	}

	if err := service.publisher.Publish(context, constants.QueueNotificationCreated, createdEvent{
		NotificationID: notification.ID,
		UserID:         notification.UserID,
		Kind:           notification.Kind,
		CreatedAt:      notification.CreatedAt,
	}); err != nil {
		service.logger.Warn("notification_publish_failed",
			slog.Int("notification_id", notification.ID),
			slog.Any("error", err),
		)
	}

	return nil
}

// NotifyEmployee delivers a notification to the account owning an employee
// record. Unclaimed records (no login yet) are skipped silently; failures are
// logged but never propagated, so callers can fan out without error handling.
func (service *Service) NotifyEmployee(context context.Context, employeeID int, kind, body string) {
	ownerID, err := service.employees.OwnerUserID(context, employeeID)
	if err != nil {
		service.logger.Warn("notification_owner_lookup_failed",
			slog.Int("employee_id", employeeID),
			slog.Any("error", err),
		)
		return
	}
	if ownerID == nil {
		service.logger.Debug("notification_skipped_unclaimed_employee",
			slog.Int("employee_id", employeeID),
		)
		return
	}

	if err := service.Notify(context, *ownerID, kind, body); err != nil {
		service.logger.Warn("notification_create_failed",
			slog.Int("user_id", *ownerID),
			slog.Any("error", err),
		)
	}
}

func (service *Service) ListForUser(context context.Context, userID, limit, offset int) ([]*Notification, int, error) {
	return service.repo.ListForUser(context, userID, limit, offset)
}

// Acknowledge marks a notification seen. Owner only; others get NotFound.
func (service *Service) Acknowledge(context context.Context, id, userID int) error {
	changed, err := service.repo.Acknowledge(context, id, userID)
	if err != nil {
		return err
	}
	if !changed {
		return apperr.NotFound("Notification")
	}
	return nil
}
