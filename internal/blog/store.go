// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import "context"

// # Blog Data Access

// Repository defines the data access contract for blog posts.
type Repository interface {

	/*
		List returns a page of posts, newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Blog: Posts on the requested page
		  - int: Total number of posts
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Blog, int, error)

	/*
		FindByID returns the post with the given identifier.

		Returns:
		  - *Blog: The hydrated entity
		  - error: apperr NotFound if missing
	*/
	FindByID(context context.Context, id int64) (*Blog, error)

	/*
		Create persists a new post and fills in its generated ID and timestamps.

		Returns:
		  - error: Conflict on a duplicate slug, storage failures otherwise
	*/
	Create(context context.Context, blog *Blog) error
}
