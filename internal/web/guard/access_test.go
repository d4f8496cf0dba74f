// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/platform/sec"
)

func TestAccessTable_MatchesServerMatrix(t *testing.T) {
	table := DefaultAccessTable()
	matrix := sec.DefaultMatrix()

	for _, role := range sec.Roles {
		t.Run(string(role), func(t *testing.T) {
			client := slices.Clone(table.Actions[role])
			slices.Sort(client)
			assert.Equal(t, matrix.Grants(role), client)

			for _, action := range sec.Actions {
				assert.Equal(t, matrix.IsAllowed(role, action), table.Can(role, action), action)
			}
		})
	}
}

func TestHasAccessToPage_DashboardFollowsAdminPageView(t *testing.T) {
	for _, role := range sec.Roles {
		assert.Equal(t,
			sec.IsAllowed(role, sec.ActionAdminPageView),
			HasAccessToPage(role, "/admin"),
			role,
		)
	}
}

func TestHasAccessToPage(t *testing.T) {
	tests := []struct {
		role sec.UserRole
		path string
		want bool
	}{
		{sec.RoleAdmin, "/admin", true},
		{sec.RoleAdmin, "/admin/users", true},
		{sec.RoleAdmin, "/admin/users/42/edit", true},
		{sec.RoleAdmin, "/administrator", false},
		{sec.RoleEditor, "/admin", true},
		{sec.RoleEditor, "/admin/blogs/new", true},
		{sec.RoleEditor, "/admin/comments?status=pending", true},
		{sec.RoleEditor, "/admin/subscribers", true},
		{sec.RoleEditor, "/admin/users", false},
		{sec.RoleEditor, "/admin/blogs/../users", false},
		{sec.RoleMember, "/admin", true},
		{sec.RoleMember, "/admin/", true},
		{sec.RoleMember, "/admin/comments/7", true},
		{sec.RoleMember, "/admin/blogs", false},
		{sec.RoleAnonymous, "/admin", false},
		{sec.UserRole("root"), "/admin", false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role)+" "+tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, HasAccessToPage(tc.role, tc.path))
		})
	}
}

func TestParseAccessTable_Rejects(t *testing.T) {
	_, err := ParseAccessTable([]byte("pages:\n  superuser:\n    - /admin\n"))
	require.Error(t, err)

	_, err = ParseAccessTable([]byte("pages:\n  admin:\n    - admin\n"))
	require.Error(t, err)

	_, err = ParseAccessTable([]byte("actions:\n  ghost:\n    - blog:read\n"))
	require.Error(t, err)
}
