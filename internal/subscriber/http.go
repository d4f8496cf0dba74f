// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/plume/internal/platform/middleware"
	requestutil "github.com/taibuivan/plume/internal/platform/request"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/pkg/pagination"
)

// Handler exposes the mailing list over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new subscriber [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /api/v1/subscribers.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.subscribe)

	router.Group(func(manage chi.Router) {
		manage.Use(middleware.RequirePermission(sec.ActionSubscriberManage))

		manage.Get("/", handler.listSubscribers)
		manage.Delete("/{subscriberID}", handler.removeSubscriber)
	})

	return router
}

type subscribeRequest struct {
	Email string `json:"email"`
}

/*
POST /api/v1/subscribers.

Response:
  - 201: Subscriber
  - 400: Invalid email
  - 409: Already subscribed
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	var payload subscribeRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscriber, err := handler.service.Subscribe(request.Context(), payload.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, subscriber)
}

// GET /api/v1/subscribers (subscriber:manage).
func (handler *Handler) listSubscribers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	subscribers, total, err := handler.service.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, subscribers, pagination.NewMeta(params.Page, params.Limit, total))
}

// DELETE /api/v1/subscribers/{subscriberID} (subscriber:manage).
func (handler *Handler) removeSubscriber(writer http.ResponseWriter, request *http.Request) {
	subscriberID, err := requestutil.Int64Param(request, "subscriberID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), subscriberID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
