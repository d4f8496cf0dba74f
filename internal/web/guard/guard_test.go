// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/plume/internal/platform/sec"
)

type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
}

func (n *recordingNavigator) Redirect(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *recordingNavigator) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

func newGuard(options Options) (*RouteGuard, *recordingNavigator) {
	navigator := &recordingNavigator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouteGuard(options, navigator, logger), navigator
}

func user(role sec.UserRole) *sec.Principal {
	return &sec.Principal{ID: "u-" + string(role), Role: role}
}

func TestRouteGuard_EditorDeniedUsersPage(t *testing.T) {
	guard, navigator := newGuard(Options{RequirePagePermission: true})
	state := State{User: user(sec.RoleEditor), Path: "/admin/users"}

	rendered := 0
	for i := 0; i < 3; i++ {
		ok := guard.Render(state, func() { rendered++ })
		assert.False(t, ok)
	}

	assert.Zero(t, rendered)
	assert.Equal(t, []string{ForbiddenPath}, navigator.calls())
}

func TestRouteGuard_LoadingWaits(t *testing.T) {
	guard, navigator := newGuard(Options{AllowedRoles: []sec.UserRole{sec.RoleAdmin}, RequirePagePermission: true})

	ok := guard.Render(State{Loading: true, Path: "/admin"}, func() { t.Fatal("children rendered while loading") })

	assert.False(t, ok)
	assert.Empty(t, navigator.calls())
}

func TestRouteGuard_CheckOrder(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		state   State
		want    Outcome
	}{
		{
			name:    "signed out goes to login before role check",
			options: Options{AllowedRoles: []sec.UserRole{sec.RoleAdmin}, RequirePagePermission: true},
			state:   State{Path: "/admin"},
			want:    Outcome{Verdict: Redirect, Target: LoginPath, Reason: "unauthenticated"},
		},
		{
			name:    "role outside allow-list",
			options: Options{AllowedRoles: []sec.UserRole{sec.RoleAdmin}, RequirePagePermission: true},
			state:   State{User: user(sec.RoleMember), Path: "/admin"},
			want:    Outcome{Verdict: Redirect, Target: ForbiddenPath, Reason: "role_not_allowed"},
		},
		{
			name:    "page denied",
			options: Options{RequirePagePermission: true},
			state:   State{User: user(sec.RoleMember), Path: "/admin/blogs"},
			want:    Outcome{Verdict: Redirect, Target: ForbiddenPath, Reason: "page_denied"},
		},
		{
			name:    "page not consulted when not required",
			options: Options{},
			state:   State{User: user(sec.RoleMember), Path: "/admin/blogs"},
			want:    Outcome{Verdict: Allow},
		},
		{
			name:    "all checks pass",
			options: Options{AllowedRoles: []sec.UserRole{sec.RoleAdmin, sec.RoleEditor}, RequirePagePermission: true},
			state:   State{User: user(sec.RoleEditor), Path: "/admin/blogs/new"},
			want:    Outcome{Verdict: Allow},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.state, tc.options, DefaultAccessTable()))
		})
	}
}

func TestRouteGuard_RendersChildrenWhenAllowed(t *testing.T) {
	guard, navigator := newGuard(Options{RequirePagePermission: true})

	rendered := false
	ok := guard.Render(State{User: user(sec.RoleAdmin), Path: "/admin/users"}, func() { rendered = true })

	assert.True(t, ok)
	assert.True(t, rendered)
	assert.Empty(t, navigator.calls())
}

func TestRouteGuard_RedirectsOncePerPath(t *testing.T) {
	guard, navigator := newGuard(Options{RequirePagePermission: true})
	member := user(sec.RoleMember)

	guard.Render(State{User: member, Path: "/admin/blogs"}, func() {})
	guard.Render(State{User: member, Path: "/admin/blogs"}, func() {})
	guard.Render(State{User: member, Path: "/admin/subscribers"}, func() {})
	guard.Render(State{Path: "/admin/subscribers"}, func() {})

	assert.Equal(t, []string{ForbiddenPath, ForbiddenPath, LoginPath}, navigator.calls())
}

func TestRouteGuard_RedirectsAgainAfterAccessWasRegained(t *testing.T) {
	guard, navigator := newGuard(Options{RequirePagePermission: true})
	member := user(sec.RoleMember)

	assert.False(t, guard.Render(State{Path: "/admin"}, func() {}))
	assert.True(t, guard.Render(State{User: member, Path: "/admin"}, func() {}))
	assert.False(t, guard.Render(State{Path: "/admin"}, func() {}))
	assert.False(t, guard.Render(State{Path: "/admin"}, func() {}))

	assert.Equal(t, []string{LoginPath, LoginPath}, navigator.calls())
}

func TestRouteGuard_LoadingRearmsRedirect(t *testing.T) {
	guard, navigator := newGuard(Options{})

	guard.Render(State{Path: "/admin"}, func() {})
	guard.Render(State{Loading: true, Path: "/admin"}, func() {})
	guard.Render(State{Path: "/admin"}, func() {})

	assert.Equal(t, []string{LoginPath, LoginPath}, navigator.calls())
}

func TestRedirectForStatus(t *testing.T) {
	target, ok := RedirectForStatus(http.StatusUnauthorized)
	assert.True(t, ok)
	assert.Equal(t, LoginPath, target)

	target, ok = RedirectForStatus(http.StatusForbidden)
	assert.True(t, ok)
	assert.Equal(t, ForbiddenPath, target)

	_, ok = RedirectForStatus(http.StatusBadRequest)
	assert.False(t, ok)
}
