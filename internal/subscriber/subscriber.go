// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package subscriber keeps the newsletter mailing list.
//
// Anyone may subscribe; listing and removal require subscriber:manage.
// Delivery of the newsletter itself happens elsewhere.
package subscriber

import "time"

// Subscriber is one address on the mailing list.
type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	FieldEmail = "email"

	MaxEmailLength = 320
)
