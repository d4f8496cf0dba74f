// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/platform/validate"
	"github.com/taibuivan/plume/pkg/slug"
)

// # Service Layer

// Service orchestrates reading and authoring of blog posts.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the author-supplied fields of a new post.
type CreateInput struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

// ListBlogs returns a page of posts, newest first.
func (service *Service) ListBlogs(context context.Context, limit, offset int) ([]*Blog, int, error) {
	return service.repo.List(context, limit, offset)
}

// FindBlog resolves a post by its identifier.
func (service *Service) FindBlog(context context.Context, id int64) (*Blog, error) {
	return service.repo.FindByID(context, id)
}

/*
CreateBlog validates and persists a new post authored by principal.

Description: The slug defaults to a normalised form of the title when the
author does not supply one.

Returns:
  - *Blog: The stored post with its generated ID
  - error: ValidationError, Conflict (duplicate slug), or storage failures
*/
func (service *Service) CreateBlog(context context.Context, principal *sec.Principal, input CreateInput) (*Blog, error) {
	blog := &Blog{
		Title:   strings.TrimSpace(input.Title),
		Slug:    strings.TrimSpace(input.Slug),
		Summary: strings.TrimSpace(input.Summary),
		Body:    input.Body,
	}

	if blog.Slug == "" {
		blog.Slug = slug.From(blog.Title)
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, blog.Title).MaxLen(FieldTitle, blog.Title, MaxTitleLength)
	validator.Required(FieldSlug, blog.Slug).Slug(FieldSlug, blog.Slug)
	validator.MaxLen(FieldSummary, blog.Summary, MaxSummaryLength)
	validator.Required(FieldBody, blog.Body).MaxLen(FieldBody, blog.Body, MaxBodyLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !principal.IsAnonymous() {
		authorID := principal.ID
		blog.AuthorID = &authorID
	}

	if err := service.repo.Create(context, blog); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "blog_created",
		slog.Int64("blog_id", blog.ID),
		slog.String("slug", blog.Slug),
	)

	return blog, nil
}
