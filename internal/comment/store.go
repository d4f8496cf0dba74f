// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"

	"github.com/taibuivan/plume/internal/blog"
)

// # Comment Data Access

// Repository defines the persistence contract for comments.
type Repository interface {

	/*
		FindComment returns the comment with the given ID.

		Returns:
		  - *Comment: The stored comment
		  - error: apperr NotFound if missing
	*/
	FindComment(context context.Context, id int64) (*Comment, error)

	/*
		SaveComment inserts a new comment when ID is zero, and otherwise
		overwrites the status of the existing one. Generated fields (ID,
		CreatedAt) are written back into comment.

		Returns:
		  - error: apperr NotFound when updating a missing comment
	*/
	SaveComment(context context.Context, comment *Comment) error

	/*
		DeleteComment removes the comment and every descendant reply.

		Returns:
		  - int64: Number of comments removed, including the target
		  - error: apperr NotFound if the comment does not exist
	*/
	DeleteComment(context context.Context, id int64) (int64, error)

	/*
		FindCommentsByBlog returns the top-level comments of a post, oldest
		first. A nil status returns every state.
	*/
	FindCommentsByBlog(context context.Context, blogID int64, status *Status) ([]*Comment, error)

	/*
		FindReplies returns the direct children of parentID, oldest first.
		Grandchildren are never included.
	*/
	FindReplies(context context.Context, parentID int64) ([]*Comment, error)
}

// BlogFinder resolves the post a comment is attached to.
//
// Implemented by [*blog.Service].
type BlogFinder interface {
	FindBlog(context context.Context, id int64) (*blog.Blog, error)
}
