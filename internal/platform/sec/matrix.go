// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// # Resource Actions

// Action names a resource-scoped operation in "resource:verb" form.
type Action string

const (
	ActionBlogRead         Action = "blog:read"
	ActionBlogCreate       Action = "blog:create"
	ActionCommentRead      Action = "comment:read"
	ActionCommentCreate    Action = "comment:create"
	ActionCommentModerate  Action = "comment:moderate"
	ActionCommentDelete    Action = "comment:delete"
	ActionSubscriberCreate Action = "subscriber:create"
	ActionSubscriberManage Action = "subscriber:manage"
	ActionAdminPageView    Action = "admin_page:view"
)

// Actions lists every action the matrix may grant.
var Actions = []Action{
	ActionBlogRead,
	ActionBlogCreate,
	ActionCommentRead,
	ActionCommentCreate,
	ActionCommentModerate,
	ActionCommentDelete,
	ActionSubscriberCreate,
	ActionSubscriberManage,
	ActionAdminPageView,
}

func (a Action) valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// # Role Matrix

//go:embed matrix.yaml
var matrixYAML []byte

// MatrixDocument is the on-disk shape of a role matrix table.
type MatrixDocument struct {
	Roles map[UserRole][]Action `yaml:"roles"`
}

// Matrix is a total function from (role, action) to allow/deny.
//
// Pairs not present in the table are denied. A Matrix is immutable after
// construction and safe for concurrent use.
type Matrix struct {
	grants map[UserRole]map[Action]struct{}
}

// ParseMatrix decodes a YAML role table and rejects unknown roles or actions.
func ParseMatrix(data []byte) (*Matrix, error) {
	var document MatrixDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("sec: failed to decode role matrix: %w", err)
	}
	return NewMatrix(document)
}

// NewMatrix builds a [Matrix] from an already decoded table.
func NewMatrix(document MatrixDocument) (*Matrix, error) {
	grants := make(map[UserRole]map[Action]struct{}, len(document.Roles))

	for role, actions := range document.Roles {
		if !role.Valid() {
			return nil, fmt.Errorf("sec: role matrix references unknown role %q", role)
		}

		set := make(map[Action]struct{}, len(actions))
		for _, action := range actions {
			if !action.valid() {
				return nil, fmt.Errorf("sec: role %q references unknown action %q", role, action)
			}
			set[action] = struct{}{}
		}
		grants[role] = set
	}

	return &Matrix{grants: grants}, nil
}

// IsAllowed reports whether role may perform action. Pure, no I/O.
func (m *Matrix) IsAllowed(role UserRole, action Action) bool {
	if m == nil {
		return false
	}
	_, ok := m.grants[role][action]
	return ok
}

// Grants returns the sorted actions granted to role.
func (m *Matrix) Grants(role UserRole) []Action {
	actions := make([]Action, 0, len(m.grants[role]))
	for action := range m.grants[role] {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Table returns a copy of the matrix in its declarative form.
func (m *Matrix) Table() map[UserRole][]Action {
	table := make(map[UserRole][]Action, len(m.grants))
	for role := range m.grants {
		table[role] = m.Grants(role)
	}
	return table
}

// # Default Matrix

var defaultMatrix = mustParseMatrix(matrixYAML)

func mustParseMatrix(data []byte) *Matrix {
	matrix, err := ParseMatrix(data)
	if err != nil {
		panic(err)
	}
	return matrix
}

// DefaultMatrix returns the role matrix compiled into the binary.
func DefaultMatrix() *Matrix {
	return defaultMatrix
}

// IsAllowed checks the compiled-in role matrix.
func IsAllowed(role UserRole, action Action) bool {
	return defaultMatrix.IsAllowed(role, action)
}
