// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements reader comments and their moderation lifecycle.

Comments form threads: a comment with no parent is top-level, and a reply
points at its parent through ParentID. Every submission enters [StatusPending]
and only a moderation decision can move it to [StatusApproved] or
[StatusRejected].

# State Machine

	pending ──moderate──▶ approved
	   │                     ▲ │
	   └──moderate──▶ rejected ◀┘

Moderation is corrective, so approved and rejected may be swapped at any time.
Deletion is not a transition: it removes the comment together with its whole
reply subtree.
*/
package comment

import "time"

// # Domain Enums

// Status is the moderation state of a comment.
type Status string

const (
	// StatusPending is the initial state of every submission.
	StatusPending Status = "pending"

	// StatusApproved marks a comment as publicly visible.
	StatusApproved Status = "approved"

	// StatusRejected hides a comment from readers.
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a recognised [Status].
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// # Domain Entities

// Comment is a reader submission attached to a blog post.
type Comment struct {
	ID         int64     `json:"id"`
	BlogID     int64     `json:"blog_id"`
	ParentID   *int64    `json:"parent_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsTopLevel reports whether the comment starts a thread.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

// # Field Identifiers

const (
	FieldBlogID     = "blog_id"
	FieldParentID   = "parent_id"
	FieldAuthorName = "author_name"
	FieldBody       = "body"
	FieldStatus     = "status"
)

// # Field Limits

const (
	MaxAuthorNameLength = 100
	MaxBodyLength       = 5000
)
