// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffhub/internal/platform/middleware"
	"github.com/taibuivan/staffhub/internal/platform/respond"
	"github.com/taibuivan/staffhub/internal/platform/sec"
	"github.com/taibuivan/staffhub/pkg/pagination"
	"github.com/taibuivan/staffhub/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(managerRoute chi.Router) {
		managerRoute.Use(middleware.RequireRole(sec.RoleManager))
		managerRoute.Get("/", handler.list)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		ActorID: query.Int(request.URL.Query().Get("actor_id"), 0),
		Action:  request.URL.Query().Get("action"),
	}

	entries, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
