// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/blog"
	"github.com/taibuivan/plume/internal/comment"
	"github.com/taibuivan/plume/internal/platform/config"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/subscriber"
	"github.com/taibuivan/plume/internal/users/auth"
)

func newTestRouter(t *testing.T, readiness HealthDependencies) (http.Handler, *sec.TokenService) {
	t.Helper()

	tokens, err := sec.NewHMACTokenService([]byte("router-test-secret"), "plume.test", time.Minute)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, ready := NewHealthHandlers(readiness, logger)

	// Repositories stay nil: every request below stops at a guard.
	cfg := &config.Config{Environment: "development", AllowedOriginSuffix: "plume.blog"}

	handlers := Handlers{
		Liveness:   liveness,
		Readiness:  ready,
		Auth:       auth.NewHandler(auth.NewService(nil, nil, tokens)),
		Blog:       blog.NewHandler(blog.NewService(nil)),
		Comment:    comment.NewHandler(comment.NewService(nil, nil, sec.DefaultMatrix())),
		Subscriber: subscriber.NewHandler(subscriber.NewService(nil)),
	}

	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewRouter(context, cfg, logger, tokens, handlers), tokens
}

func TestHealth_Liveness(t *testing.T) {
	router, _ := newTestRouter(t, HealthDependencies{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestHealth_ReadinessDegraded(t *testing.T) {
	router, _ := newTestRouter(t, HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `{"name":"postgres","ok":true}`)
}

func TestRouter_GuardsBeforeHandlers(t *testing.T) {
	router, tokens := newTestRouter(t, HealthDependencies{})

	member, err := tokens.Issue(&sec.Principal{ID: "u-member", Role: sec.RoleMember})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous moderation", http.MethodPatch, "/api/v1/comments/5", "", http.StatusUnauthorized},
		{"member moderation", http.MethodPatch, "/api/v1/comments/5", member.Value, http.StatusForbidden},
		{"anonymous delete", http.MethodDelete, "/api/v1/comments/5", "", http.StatusUnauthorized},
		{"anonymous blog create", http.MethodPost, "/api/v1/blogs", "", http.StatusUnauthorized},
		{"member blog create", http.MethodPost, "/api/v1/blogs", member.Value, http.StatusForbidden},
		{"member subscriber list", http.MethodGet, "/api/v1/subscribers", member.Value, http.StatusForbidden},
		{"anonymous me", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"garbage token on guarded route", http.MethodDelete, "/api/v1/comments/5", "garbage", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"status":"approved"}`))
			request.RemoteAddr = "203.0.113.10:5000"
			if tc.token != "" {
				request.Header.Set("Authorization", "Bearer "+tc.token)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t, HealthDependencies{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
}
