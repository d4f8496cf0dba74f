// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/plume/internal/platform/middleware"
	requestutil "github.com/taibuivan/plume/internal/platform/request"
	"github.com/taibuivan/plume/internal/platform/respond"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for blog posts.
type Handler struct {
	service *Service
}

// NewHandler constructs a new blog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for /api/v1/blogs.
//
// Extra sub-routes (such as the comment thread of a post) are mounted by the
// caller through mount.
func (handler *Handler) Routes(mount ...func(chi.Router)) chi.Router {
	router := chi.NewRouter()

	// ## Public Reading
	router.Get("/", handler.listBlogs)
	router.Get("/{blogID}", handler.getBlog)

	// ## Authoring
	router.With(middleware.RequirePermission(sec.ActionBlogCreate)).Post("/", handler.createBlog)

	for _, fn := range mount {
		fn(router)
	}

	return router
}

/*
GET /api/v1/blogs.

Request:
  - page: int
  - limit: int

Response:
  - 200: []Blog (paginated)
*/
func (handler *Handler) listBlogs(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	blogs, total, err := handler.service.ListBlogs(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, blogs, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/blogs/{blogID}.

Response:
  - 200: Blog
  - 404: Blog not found
*/
func (handler *Handler) getBlog(writer http.ResponseWriter, request *http.Request) {
	blogID, err := requestutil.Int64Param(request, "blogID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.FindBlog(request.Context(), blogID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, blog)
}

/*
POST /api/v1/blogs.

Request:
  - body: CreateInput

Response:
  - 201: Blog
  - 400: Validation failure
  - 409: Slug already taken
*/
func (handler *Handler) createBlog(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	blog, err := handler.service.CreateBlog(request.Context(), requestutil.Principal(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, blog)
}
