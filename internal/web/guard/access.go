// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard is the navigation-side access layer of the Plume back office.

It decides, before a protected view renders, whether the signed-in user may
see it, and where to send them otherwise. Nothing here is a security
boundary: the API re-checks every request with the server role matrix.

# Components

  - [HasAccessToPage]: role and path to allow/deny, from access.yaml.
  - [RouteGuard]: ordered checks over one [State], rendering children only
    when every check passes and firing each redirect once.
  - [SessionClient]: resolves the current user through GET /api/v1/auth/me.
*/
package guard

import (
	_ "embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/plume/internal/platform/sec"
)

//go:embed access.yaml
var accessYAML []byte

// subtreeSuffix marks a page pattern that covers everything below it.
const subtreeSuffix = "/**"

// AccessTable is the client copy of the role matrix plus page allow-lists.
type AccessTable struct {
	Actions map[sec.UserRole][]sec.Action `yaml:"actions"`
	Pages   map[sec.UserRole][]string     `yaml:"pages"`
}

// ParseAccessTable decodes and checks a table.
func ParseAccessTable(data []byte) (*AccessTable, error) {
	table := &AccessTable{}
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("guard: decode access table: %w", err)
	}

	for role, patterns := range table.Pages {
		if !role.Valid() {
			return nil, fmt.Errorf("guard: unknown role %q in pages", role)
		}
		for _, pattern := range patterns {
			if !strings.HasPrefix(pattern, "/") {
				return nil, fmt.Errorf("guard: page pattern %q for %s must be absolute", pattern, role)
			}
		}
	}
	for role := range table.Actions {
		if !role.Valid() {
			return nil, fmt.Errorf("guard: unknown role %q in actions", role)
		}
	}

	return table, nil
}

var defaultTable = mustParseAccessTable(accessYAML)

func mustParseAccessTable(data []byte) *AccessTable {
	table, err := ParseAccessTable(data)
	if err != nil {
		panic(err)
	}
	return table
}

// DefaultAccessTable returns the embedded table.
func DefaultAccessTable() *AccessTable {
	return defaultTable
}

// Can reports whether role holds action in the client table.
func (t *AccessTable) Can(role sec.UserRole, action sec.Action) bool {
	for _, granted := range t.Actions[role] {
		if granted == action {
			return true
		}
	}
	return false
}

// HasAccessToPage reports whether role may render the view at requestPath.
func (t *AccessTable) HasAccessToPage(role sec.UserRole, requestPath string) bool {
	cleaned := cleanPath(requestPath)
	for _, pattern := range t.Pages[role] {
		if matchPage(pattern, cleaned) {
			return true
		}
	}
	return false
}

// HasAccessToPage evaluates requestPath against the embedded table.
func HasAccessToPage(role sec.UserRole, requestPath string) bool {
	return defaultTable.HasAccessToPage(role, requestPath)
}

// matchPage compares whole path segments, so "/admin/**" covers
// "/admin/blogs" but never "/administrator".
func matchPage(pattern, cleaned string) bool {
	if base, ok := strings.CutSuffix(pattern, subtreeSuffix); ok {
		base = cleanPath(base)
		if base == "/" {
			return true
		}
		return cleaned == base || strings.HasPrefix(cleaned, base+"/")
	}
	return cleaned == cleanPath(pattern)
}

// cleanPath drops the query string and normalises slashes and dot segments.
func cleanPath(raw string) string {
	if index := strings.IndexAny(raw, "?#"); index >= 0 {
		raw = raw[:index]
	}
	if raw == "" {
		return "/"
	}
	return path.Clean("/" + raw)
}
