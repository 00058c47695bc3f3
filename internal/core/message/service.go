// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

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

// SendInput carries a new direct message.
type SendInput struct {
	RecipientID int
	Subject     string
	Body        string
}

func (service *Service) Send(context context.Context, senderID int, input SendInput) (*Message, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldRecipientID, input.RecipientID).
		MaxLen(FieldSubject, input.Subject, 200).
		Required(FieldBody, input.Body).
		MaxLen(FieldBody, input.Body, 4000)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	message := &Message{
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Subject:     input.Subject,
		Body:        input.Body,
	}
	if err := service.repo.Create(context, message); err != nil {
		return nil, err
	}

	service.logger.Info("message_sent",
		slog.Int("message_id", message.ID),
		slog.Int("recipient_id", message.RecipientID),
	)
	return message, nil
}

func (service *Service) Inbox(context context.Context, userID, limit, offset int) ([]*Message, int, error) {
	return service.repo.ListInbox(context, userID, limit, offset)
}

func (service *Service) Sent(context context.Context, userID, limit, offset int) ([]*Message, int, error) {
	return service.repo.ListSent(context, userID, limit, offset)
}

// MarkRead marks a message read. Only the recipient may do so; anyone else
// gets NotFound, which also avoids confirming the message exists.
func (service *Service) MarkRead(context context.Context, id, callerID int) (*Message, error) {
	changed, err := service.repo.MarkRead(context, id, callerID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperr.NotFound("Message")
	}
	return service.repo.Get(context, id)
}
