// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import "context"

// Repository defines the persistence contract for the mailing list.
type Repository interface {
	// Create stores a new address. A duplicate email yields apperr Conflict.
	Create(context context.Context, subscriber *Subscriber) error

	// List returns a page of subscribers, oldest first, and the total count.
	List(context context.Context, limit, offset int) ([]*Subscriber, int, error)

	// Delete removes a subscriber. A missing ID yields apperr NotFound.
	Delete(context context.Context, id int64) error
}
