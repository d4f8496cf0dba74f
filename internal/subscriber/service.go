// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/validate"
)

// Service manages the mailing list.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe adds email to the list. Addresses are stored lower-cased, so the
// same mailbox cannot be registered twice with different casing.
func (service *Service) Subscribe(context context.Context, email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).MaxLen(FieldEmail, email, MaxEmailLength)
	if !validator.HasErrors() {
		validator.Email(FieldEmail, email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	subscriber := &Subscriber{Email: email}
	if err := service.repo.Create(context, subscriber); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "subscriber_added", slog.Int64("subscriber_id", subscriber.ID))
	return subscriber, nil
}

// List returns a page of subscribers.
func (service *Service) List(context context.Context, limit, offset int) ([]*Subscriber, int, error) {
	return service.repo.List(context, limit, offset)
}

// Remove deletes a subscriber by ID.
func (service *Service) Remove(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "subscriber_removed", slog.Int64("subscriber_id", id))
	return nil
}
