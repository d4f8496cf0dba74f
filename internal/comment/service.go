// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/platform/validate"
)

// Authorizer decides whether a role may perform an action.
//
// Implemented by [*sec.Matrix].
type Authorizer interface {
	IsAllowed(role sec.UserRole, action sec.Action) bool
}

// # Service Layer

// Service runs the comment moderation state machine.
//
// The HTTP layer guards moderation and deletion with the same matrix; the
// service re-checks so that no caller can reach a transition unauthorised.
type Service struct {
	repo       Repository
	blogs      BlogFinder
	authorizer Authorizer
}

// NewService constructs a new [Service].
func NewService(repo Repository, blogs BlogFinder, authorizer Authorizer) *Service {
	return &Service{
		repo:       repo,
		blogs:      blogs,
		authorizer: authorizer,
	}
}

// CreateInput carries a reader submission.
type CreateInput struct {
	BlogID     int64  `json:"-"`
	ParentID   *int64 `json:"parent_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

// # Submission

/*
Create records a new comment in the pending state.

Description: Open to anonymous principals. The post must exist and, for a
reply, the parent must exist on the same post. Nothing is persisted when any
check fails.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Comment: The stored comment, always [StatusPending]
  - error: ValidationError (fields, unknown post, unknown parent, cross-post parent)
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Comment, error) {

	// ── 1. Field Validation ───────────────────────────────────────────────
	authorName := strings.TrimSpace(input.AuthorName)
	body := strings.TrimSpace(input.Body)

	validator := &validate.Validator{}
	validator.Positive(FieldBlogID, input.BlogID)
	validator.Required(FieldAuthorName, authorName).MaxLen(FieldAuthorName, authorName, MaxAuthorNameLength)
	validator.Required(FieldBody, body).MaxLen(FieldBody, body, MaxBodyLength)
	if input.ParentID != nil {
		validator.Positive(FieldParentID, *input.ParentID)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Post Existence ─────────────────────────────────────────────────
	if _, err := service.blogs.FindBlog(context, input.BlogID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, validate.RequiredError(FieldBlogID, "Blog does not exist")
		}
		return nil, err
	}

	// ── 3. Thread Integrity ───────────────────────────────────────────────
	if input.ParentID != nil {
		parent, err := service.repo.FindComment(context, *input.ParentID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, validate.RequiredError(FieldParentID, "Parent comment does not exist")
			}
			return nil, err
		}

		if parent.BlogID != input.BlogID {
			return nil, validate.RequiredError(FieldParentID, "Parent comment belongs to another blog")
		}
	}

	// ── 4. Persistence ────────────────────────────────────────────────────
	comment := &Comment{
		BlogID:     input.BlogID,
		ParentID:   input.ParentID,
		AuthorName: authorName,
		Body:       body,
		Status:     StatusPending,
	}

	if err := service.repo.SaveComment(context, comment); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("blog_id", comment.BlogID),
		slog.Bool("reply", !comment.IsTopLevel()),
	)

	return comment, nil
}

// # Moderation

/*
Moderate overwrites the status of a comment with a moderation decision.

Description: Re-moderation is allowed in either direction. The comment is
left untouched when the principal lacks comment:moderate.

Returns:
  - *Comment: The updated comment
  - error: Unauthorized, Forbidden, ValidationError (decision), NotFound
*/
func (service *Service) Moderate(context context.Context, principal *sec.Principal, id int64, decision Status) (*Comment, error) {
	if err := service.authorize(principal, sec.ActionCommentModerate); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if err := validator.OneOf(FieldStatus, string(decision), string(StatusApproved), string(StatusRejected)).Err(); err != nil {
		return nil, err
	}

	comment, err := service.repo.FindComment(context, id)
	if err != nil {
		return nil, err
	}

	previous := comment.Status
	comment.Status = decision

	if err := service.repo.SaveComment(context, comment); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_moderated",
		slog.Int64("comment_id", comment.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(decision)),
		slog.String("moderator_id", principal.ID),
	)

	return comment, nil
}

/*
Delete removes a comment and its entire reply subtree.

Returns:
  - error: Unauthorized, Forbidden, NotFound
*/
func (service *Service) Delete(context context.Context, principal *sec.Principal, id int64) error {
	if err := service.authorize(principal, sec.ActionCommentDelete); err != nil {
		return err
	}

	removed, err := service.repo.DeleteComment(context, id)
	if err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", id),
		slog.Int64("removed", removed),
		slog.String("user_id", principal.ID),
	)

	return nil
}

// # Thread Reading

/*
ListByBlog returns the top-level comments of a post, oldest first.

Description: Readers without comment:moderate only ever see approved
comments; asking them for another status is Forbidden. Moderators see every
status unless they filter.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (may be anonymous)
  - blogID: int64
  - status: *Status (optional filter)

Returns:
  - []*Comment: Matching comments
  - error: NotFound (post), ValidationError (status), Forbidden
*/
func (service *Service) ListByBlog(context context.Context, principal *sec.Principal, blogID int64, status *Status) ([]*Comment, error) {
	filter, err := service.visibleStatus(principal, status)
	if err != nil {
		return nil, err
	}

	if _, err := service.blogs.FindBlog(context, blogID); err != nil {
		return nil, err
	}

	return service.repo.FindCommentsByBlog(context, blogID, filter)
}

/*
ListReplies returns the direct replies of a comment, oldest first.

Description: One level only. Callers render deeper threads by calling again
for each reply. Readers without comment:moderate only see approved replies
under an approved parent.

Returns:
  - []*Comment: Direct children
  - error: NotFound if the parent does not exist or is hidden from the caller
*/
func (service *Service) ListReplies(context context.Context, principal *sec.Principal, id int64) ([]*Comment, error) {
	parent, err := service.repo.FindComment(context, id)
	if err != nil {
		return nil, err
	}

	moderator := service.canModerate(principal)
	if !moderator && parent.Status != StatusApproved {
		return nil, apperr.NotFound("Comment")
	}

	replies, err := service.repo.FindReplies(context, id)
	if err != nil {
		return nil, err
	}

	if moderator {
		return replies, nil
	}

	visible := make([]*Comment, 0, len(replies))
	for _, reply := range replies {
		if reply.Status == StatusApproved {
			visible = append(visible, reply)
		}
	}
	return visible, nil
}

// # Access Helpers

// authorize applies the Unauthenticated then Forbidden checks in order.
func (service *Service) authorize(principal *sec.Principal, action sec.Action) error {
	if principal.IsAnonymous() {
		return apperr.Unauthorized("Authentication required")
	}
	if !service.authorizer.IsAllowed(principal.Role, action) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}

func (service *Service) canModerate(principal *sec.Principal) bool {
	role := sec.RoleAnonymous
	if !principal.IsAnonymous() {
		role = principal.Role
	}
	return service.authorizer.IsAllowed(role, sec.ActionCommentModerate)
}

// visibleStatus resolves the effective status filter for principal.
func (service *Service) visibleStatus(principal *sec.Principal, requested *Status) (*Status, error) {
	if requested != nil && !requested.IsValid() {
		return nil, validate.RequiredError(FieldStatus, "Must be one of: pending, approved, rejected")
	}

	if service.canModerate(principal) {
		return requested, nil
	}

	approved := StatusApproved
	if requested == nil || *requested == StatusApproved {
		return &approved, nil
	}

	return nil, apperr.Forbidden("Only moderators may list unapproved comments")
}
