// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog manages the published articles of the Plume site.

Blog posts are the anchor for every comment thread: the comment state machine
resolves a post through [Service.FindBlog] before accepting a submission.

Core Responsibility:

  - Reading: Public, paginated listing and single-post lookup.
  - Authoring: Creation by principals holding the blog:create action.
*/
package blog

import "time"

// # Domain Entities

// Blog is a single published article.
type Blog struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	AuthorID  *string   `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle   = "title"
	FieldSlug    = "slug"
	FieldSummary = "summary"
	FieldBody    = "body"
)

// # Field Limits

const (
	MaxTitleLength   = 300
	MaxSummaryLength = 1000
	MaxBodyLength    = 100000
)
