// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/taibuivan/plume/internal/platform/sec"
)

// Default redirect targets.
const (
	LoginPath     = "/login"
	ForbiddenPath = "/access-denied"
)

// State is the resolved context every check reads.
type State struct {
	// User is nil when nobody is signed in.
	User *sec.Principal
	// Loading is true until the session round-trip has finished.
	Loading bool
	// Path is the view being navigated to.
	Path string
}

// Options configures one guarded view.
type Options struct {
	// AllowedRoles restricts the view to these roles. Empty means any signed-in user.
	AllowedRoles []sec.UserRole
	// RequirePagePermission additionally consults [AccessTable.HasAccessToPage].
	RequirePagePermission bool
}

// # Check Outcomes

// Verdict is the result kind of a single check.
type Verdict int

const (
	// Allow passes control to the next check.
	Allow Verdict = iota
	// Wait renders nothing and does not navigate.
	Wait
	// Redirect renders nothing and navigates to Outcome.Target.
	Redirect
)

func (verdict Verdict) String() string {
	switch verdict {
	case Allow:
		return "allow"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Outcome is what a check decided.
type Outcome struct {
	Verdict Verdict
	Target  string
	Reason  string
}

// Check is one predicate in the guard pipeline.
type Check func(state State, options Options, table *AccessTable) Outcome

// Checks is the fixed evaluation order. The first non-Allow outcome wins.
var Checks = []Check{
	checkLoading,
	checkAuthenticated,
	checkRole,
	checkPagePermission,
}

func checkLoading(state State, _ Options, _ *AccessTable) Outcome {
	if state.Loading {
		return Outcome{Verdict: Wait, Reason: "loading"}
	}
	return Outcome{Verdict: Allow}
}

func checkAuthenticated(state State, _ Options, _ *AccessTable) Outcome {
	if state.User.IsAnonymous() {
		return Outcome{Verdict: Redirect, Target: LoginPath, Reason: "unauthenticated"}
	}
	return Outcome{Verdict: Allow}
}

func checkRole(state State, options Options, _ *AccessTable) Outcome {
	if len(options.AllowedRoles) == 0 || slices.Contains(options.AllowedRoles, state.User.Role) {
		return Outcome{Verdict: Allow}
	}
	return Outcome{Verdict: Redirect, Target: ForbiddenPath, Reason: "role_not_allowed"}
}

func checkPagePermission(state State, options Options, table *AccessTable) Outcome {
	if !options.RequirePagePermission || table.HasAccessToPage(state.User.Role, state.Path) {
		return Outcome{Verdict: Allow}
	}
	return Outcome{Verdict: Redirect, Target: ForbiddenPath, Reason: "page_denied"}
}

// Evaluate runs [Checks] in order and returns the first blocking outcome, or
// Allow when every check passes.
func Evaluate(state State, options Options, table *AccessTable) Outcome {
	for _, check := range Checks {
		if outcome := check(state, options, table); outcome.Verdict != Allow {
			return outcome
		}
	}
	return Outcome{Verdict: Allow}
}

// # Route Guard

// Navigator performs client-side navigation.
type Navigator interface {
	Redirect(target string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(target string)

// Redirect calls fn(target).
func (fn NavigatorFunc) Redirect(target string) { fn(target) }

type redirectKey struct {
	path   string
	target string
}

// RouteGuard wraps a protected view.
//
// A view is re-rendered every time its state changes; while the same denial
// persists the guard navigates once, so repeated renders do not stack
// redirects. Reaching Allow or Wait re-arms it. Safe for concurrent use.
type RouteGuard struct {
	options   Options
	table     *AccessTable
	navigator Navigator
	logger    *slog.Logger

	mu        sync.Mutex
	lastFired *redirectKey
}

// NewRouteGuard builds a guard over the embedded access table.
func NewRouteGuard(options Options, navigator Navigator, logger *slog.Logger) *RouteGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteGuard{
		options:   options,
		table:     DefaultAccessTable(),
		navigator: navigator,
		logger:    logger,
	}
}

// WithTable swaps the access table, for views driven by a custom table.
func (guard *RouteGuard) WithTable(table *AccessTable) *RouteGuard {
	guard.table = table
	return guard
}

/*
Render evaluates state and calls children only when access is granted.

Returns:
  - bool: true when children were rendered
*/
func (guard *RouteGuard) Render(state State, children func()) bool {
	outcome := Evaluate(state, guard.options, guard.table)

	switch outcome.Verdict {
	case Allow:
		guard.rearm()
		children()
		return true
	case Wait:
		guard.rearm()
	case Redirect:
		guard.redirectOnce(state.Path, outcome)
	}
	return false
}

func (guard *RouteGuard) rearm() {
	guard.mu.Lock()
	guard.lastFired = nil
	guard.mu.Unlock()
}

func (guard *RouteGuard) redirectOnce(path string, outcome Outcome) {
	key := redirectKey{path: path, target: outcome.Target}

	guard.mu.Lock()
	if guard.lastFired != nil && *guard.lastFired == key {
		guard.mu.Unlock()
		return
	}
	guard.lastFired = &key
	guard.mu.Unlock()

	guard.logger.Info("guard_redirect",
		slog.String("path", path),
		slog.String("target", outcome.Target),
		slog.String("reason", outcome.Reason),
	)
	guard.navigator.Redirect(outcome.Target)
}

// # API Failures

// RedirectForStatus maps an API response status to a navigation target.
// Unauthenticated goes to login and Forbidden to the access-denied view; other
// failures are shown inline and return false.
func RedirectForStatus(status int) (string, bool) {
	switch status {
	case http.StatusUnauthorized:
		return LoginPath, true
	case http.StatusForbidden:
		return ForbiddenPath, true
	}
	return "", false
}
