// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog

import (
	"context"
	"log/slog"
)

// Service appends and lists audit entries.
//
// Record is deliberately fire-and-forget: auditing must never fail or slow
// the operation being audited, so storage errors are logged and dropped.
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

// Record appends an audit entry. actorID 0 means anonymous.
func (service *Service) Record(context context.Context, actorID int, action, detail, ipAddress, userAgent string) {
	entry := &Entry{
		Action:    action,
		Detail:    detail,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if actorID > 0 {
		entry.ActorID = &actorID
	}

	if err := service.repo.Append(context, entry); err != nil {
		service.logger.Warn("access_log_append_failed",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {
	return service.repo.List(context, filter, limit, offset)
}
