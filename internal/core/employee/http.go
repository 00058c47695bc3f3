// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package employee

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

// AccountLookup supplies the email behind an authenticated user id, needed
// for the claim-by-email fallback on self-service routes.
type AccountLookup interface {
	EmailForUser(ctx context.Context, userID int) (string, error)
}

func NewHandler(service *Service, accounts AccountLookup) *Handler {
	return &Handler{service: service, accounts: accounts}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Self-service: any authenticated caller
	router.Group(func(selfRoute chi.Router) {
		selfRoute.Use(middleware.RequireAuth)
		selfRoute.Get("/me", handler.getOwn)
		selfRoute.Patch("/me", handler.updateOwn)
	})

	// Management surface
	router.Group(func(managerRoute chi.Router) {
		managerRoute.Use(middleware.RequireRole(sec.RoleManager))

		managerRoute.Get("/", handler.listEmployees)
		managerRoute.Get("/{id}", handler.getEmployee)
		managerRoute.Post("/", handler.createEmployee)
		managerRoute.Patch("/{id}", handler.updateEmployee)
		managerRoute.Delete("/{id}", handler.deleteEmployee)
	})
}

func (handler *Handler) listEmployees(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:      request.URL.Query().Get("q"),
		Department: request.URL.Query().Get("department"),
	}
	sort := request.URL.Query().Get("sort")

	employees, total, err := handler.service.ListEmployees(request.Context(), filter, sort, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, employees, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getEmployee(writer http.ResponseWriter, request *http.Request) {
	employeeID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	employee, err := handler.service.GetEmployee(request.Context(), employeeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, employee)
}

func (handler *Handler) createEmployee(writer http.ResponseWriter, request *http.Request) {
	var input Employee
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateEmployee(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateEmployee(writer http.ResponseWriter, request *http.Request) {
	employeeID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Employee
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateEmployee(request.Context(), employeeID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteEmployee(writer http.ResponseWriter, request *http.Request) {
	employeeID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteEmployee(request.Context(), employeeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) getOwn(writer http.ResponseWriter, request *http.Request) {
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

	employee, err := handler.service.ResolveOwned(request.Context(), claims.UserID, email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, employee)
}

func (handler *Handler) updateOwn(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Employee
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email, err := handler.accounts.EmailForUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	employee, err := handler.service.UpdateOwned(request.Context(), claims.UserID, email, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, employee)
}
