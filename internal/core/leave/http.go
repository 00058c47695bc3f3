// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package leave

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/staffhub/internal/platform/request"
	"github.com/taibuivan/staffhub/internal/platform/respond"
	"github.com/taibuivan/staffhub/internal/platform/sec"
	"github.com/taibuivan/staffhub/pkg/pagination"
)

type Handler struct {
	service  *Service
	accounts AccountLookup
}

// AccountLookup supplies the email behind an authenticated user id.
type AccountLookup interface {
	EmailForUser(ctx context.Context, userID int) (string, error)
}

func NewHandler(service *Service, accounts AccountLookup) *Handler {
	return &Handler{service: service, accounts: accounts}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Self-service
	router.Group(func(selfRoute chi.Router) {
		selfRoute.Use(middleware.RequireAuth)
		selfRoute.Post("/", handler.createRequest)
		selfRoute.Get("/mine", handler.listOwn)
	})

	// Management surface
	router.Group(func(managerRoute chi.Router) {
		managerRoute.Use(middleware.RequireRole(sec.RoleManager))

		managerRoute.Get("/", handler.listAll)
		managerRoute.Get("/{id}", handler.getRequest)
		managerRoute.Post("/{id}/approve", handler.approve)
		managerRoute.Post("/{id}/reject", handler.reject)
	})
}

type createRequestPayload struct {
	Kind      string `json:"kind"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type decisionPayload struct {
	Note *string `json:"note"`
}

func (handler *Handler) createRequest(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequestPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email, err := handler.accounts.EmailForUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	leaveRequest, err := handler.service.CreateRequest(request.Context(), claims.UserID, email, CreateInput{
		Kind:      input.Kind,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Reason:    input.Reason,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, leaveRequest)
}

func (handler *Handler) listOwn(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	email, err := handler.accounts.EmailForUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	requests, total, err := handler.service.ListOwn(request.Context(), claims.UserID, email, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Status: Status(request.URL.Query().Get("status")),
	}

	requests, total, err := handler.service.ListAll(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getRequest(writer http.ResponseWriter, request *http.Request) {
	leaveID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	leaveRequest, err := handler.service.GetRequest(request.Context(), leaveID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, leaveRequest)
}

func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	handler.decide(writer, request, StatusApproved)
}

func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	handler.decide(writer, request, StatusRejected)
}

func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request, status Status) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	leaveID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The decision note is optional; an empty body is fine.
	var input decisionPayload
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	leaveRequest, err := handler.service.Decide(request.Context(), leaveID, status, claims.UserID, input.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, leaveRequest)
}
