// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/staffhub/internal/platform/request"
	"github.com/taibuivan/staffhub/internal/platform/respond"
	"github.com/taibuivan/staffhub/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the messaging surface. Every route requires
// authentication; ownership checks happen in queries, not gates.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authRoute chi.Router) {
		authRoute.Use(middleware.RequireAuth)

		authRoute.Post("/", handler.send)
		authRoute.Get("/inbox", handler.inbox)
		authRoute.Get("/sent", handler.sent)
		authRoute.Post("/{id}/read", handler.markRead)
	})
}

type sendPayload struct {
	RecipientID int    `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input sendPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.Send(request.Context(), claims.UserID, SendInput{
		RecipientID: input.RecipientID,
		Subject:     input.Subject,
		Body:        input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, message)
}

func (handler *Handler) inbox(writer http.ResponseWriter, request *http.Request) {
	handler.listFor(writer, request, handler.service.Inbox)
}

func (handler *Handler) sent(writer http.ResponseWriter, request *http.Request) {
	handler.listFor(writer, request, handler.service.Sent)
}

func (handler *Handler) listFor(
	writer http.ResponseWriter,
	request *http.Request,
	list func(ctx context.Context, userID, limit, offset int) ([]*Message, int, error),
) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	messages, total, err := list(request.Context(), claims.UserID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, messages, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messageID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.MarkRead(request.Context(), messageID, claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, message)
}
