// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/plume/internal/platform/middleware"
	requestutil "github.com/taibuivan/plume/internal/platform/request"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/internal/platform/sec"
)

// # Handler Implementation

// Handler exposes the comment state machine over HTTP.
//
// # Routing Strategy
//
//   - Public: submission and thread reading, anonymous allowed.
//   - Guarded: moderation and deletion pass [middleware.RequirePermission].
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BlogRoutes registers the per-post thread endpoints on the blog router.
func (handler *Handler) BlogRoutes(router chi.Router) {
	router.Route("/{blogID}/comments", func(thread chi.Router) {
		thread.Get("/", handler.listByBlog)
		thread.Post("/", handler.createComment)
	})
}

// Routes returns a [chi.Router] for /api/v1/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Reading
	router.Get("/{commentID}/replies", handler.listReplies)

	// ## Moderation (Authorization Guard)
	router.With(middleware.RequirePermission(sec.ActionCommentModerate)).Patch("/{commentID}", handler.moderateComment)
	router.With(middleware.RequirePermission(sec.ActionCommentDelete)).Delete("/{commentID}", handler.deleteComment)

	return router
}

/*
POST /api/v1/blogs/{blogID}/comments.

Request:
  - parent_id: int64 (optional)
  - author_name: string
  - body: string

Response:
  - 201: Comment (status pending)
  - 400: Validation failure or parent on another post
  - 404: Blog not found
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	blogID, err := requestutil.Int64Param(request, "blogID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.BlogID = blogID

	comment, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
GET /api/v1/blogs/{blogID}/comments.

Request:
  - status: string (optional; pending, approved, rejected)

Response:
  - 200: []Comment (top-level, oldest first)
  - 403: Unapproved status requested without comment:moderate
*/
func (handler *Handler) listByBlog(writer http.ResponseWriter, request *http.Request) {
	blogID, err := requestutil.Int64Param(request, "blogID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.ListByBlog(request.Context(),
		requestutil.Principal(request), blogID, statusQuery(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}

/*
GET /api/v1/comments/{commentID}/replies.

Response:
  - 200: []Comment (direct children, oldest first)
  - 404: Comment not found
*/
func (handler *Handler) listReplies(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.Int64Param(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	replies, err := handler.service.ListReplies(request.Context(), requestutil.Principal(request), commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, replies)
}

// moderateRequest is the PATCH payload.
type moderateRequest struct {
	Status Status `json:"status"`
}

/*
PATCH /api/v1/comments/{commentID}.

Request:
  - status: string (approved, rejected)

Response:
  - 200: Comment
  - 401: Missing or invalid token
  - 403: Role lacks comment:moderate
  - 404: Comment not found
*/
func (handler *Handler) moderateComment(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.Int64Param(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload moderateRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Moderate(request.Context(), requestutil.Principal(request), commentID, payload.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DELETE /api/v1/comments/{commentID}.

Response:
  - 204: Comment and its replies removed
  - 401: Missing or invalid token
  - 403: Role lacks comment:delete
  - 404: Comment not found
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	commentID, err := requestutil.Int64Param(request, "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Principal(request), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// statusQuery reads the optional ?status= filter.
func statusQuery(request *http.Request) *Status {
	raw := strings.TrimSpace(request.URL.Query().Get("status"))
	if raw == "" {
		return nil
	}
	status := Status(strings.ToLower(raw))
	return &status
}
