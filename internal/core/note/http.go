// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/staffhub/internal/platform/request"
	"github.com/taibuivan/staffhub/internal/platform/respond"
	"github.com/taibuivan/staffhub/internal/platform/sec"
	"github.com/taibuivan/staffhub/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the note surface. The whole surface is manager-tier:
// notes are internal management annotations, never shown to their subject.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(managerRoute chi.Router) {
		managerRoute.Use(middleware.RequireRole(sec.RoleManager))

		managerRoute.Get("/employee/{employeeID}", handler.listByEmployee)
		managerRoute.Post("/employee/{employeeID}", handler.createNote)
		managerRoute.Patch("/{id}", handler.updateNote)
		managerRoute.Delete("/{id}", handler.deleteNote)
	})
}

type notePayload struct {
	Body string `json:"body"`
}

func (handler *Handler) listByEmployee(writer http.ResponseWriter, request *http.Request) {
	employeeID, err := requestutil.IntParam(request, "employeeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	notes, total, err := handler.service.ListByEmployee(request.Context(), employeeID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notes, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) createNote(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	employeeID, err := requestutil.IntParam(request, "employeeID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input notePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	note := &Note{
		EmployeeID: employeeID,
		AuthorID:   claims.UserID,
		Body:       input.Body,
	}
	if err := handler.service.CreateNote(request.Context(), note); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, note)
}

func (handler *Handler) updateNote(writer http.ResponseWriter, request *http.Request) {
	noteID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input notePayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.service.UpdateNote(request.Context(), noteID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, note)
}

func (handler *Handler) deleteNote(writer http.ResponseWriter, request *http.Request) {
	noteID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteNote(request.Context(), noteID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
