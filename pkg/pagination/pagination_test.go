// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: DefaultLimit}},
		{"?page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"?page=-2&limit=abc", Params{Page: 1, Limit: DefaultLimit}},
		{"?limit=5000", Params{Page: 1, Limit: MaxLimit}},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, FromRequest(httptest.NewRequest("GET", "/blogs"+tc.query, nil)))
		})
	}
}

func TestMeta(t *testing.T) {
	assert.Equal(t, Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, NewMeta(2, 10, 21))
	assert.Equal(t, 10, Params{Page: 2, Limit: 10}.Offset())
}
