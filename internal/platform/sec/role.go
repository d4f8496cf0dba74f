// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to a principal.
type UserRole string

const (
	// Unrestricted back-office access
	RoleAdmin UserRole = "admin"

	// Publishes posts and moderates reader comments
	RoleEditor UserRole = "editeur"

	// Registered reader with a back-office account
	RoleMember UserRole = "membre"

	// Unauthenticated visitor
	RoleAnonymous UserRole = "anonymous"
)

// Roles lists every known role, most privileged first.
var Roles = []UserRole{RoleAdmin, RoleEditor, RoleMember, RoleAnonymous}

// ParseRole maps a raw claim value to a known role.
// Unknown values collapse to [RoleAnonymous] so they never gain a grant.
func ParseRole(raw string) UserRole {
	role := UserRole(raw)
	if role.Valid() {
		return role
	}
	return RoleAnonymous
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleMember, RoleAnonymous:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (r UserRole) String() string {
	return string(r)
}

// # Principal

// Principal is the identity resolved from a verified access token.
//
// It lives for the duration of one request and is never persisted.
type Principal struct {
	ID       string   `json:"id"`
	Username string   `json:"username,omitempty"`
	Role     UserRole `json:"role"`
}

// Anonymous returns the principal used for requests without a token.
func Anonymous() *Principal {
	return &Principal{Role: RoleAnonymous}
}

// IsAnonymous reports whether the principal carries no authenticated identity.
func (p *Principal) IsAnonymous() bool {
	return p == nil || p.ID == "" || p.Role == RoleAnonymous
}
