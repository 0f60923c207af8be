// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "fmt"

// Role is a team member's permission level. BOARD and CAPTAIN roles
// may create and delete members, projects, and tickets; MEMBER may
// only act on work assigned to them.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleBoard   Role = "BOARD"
	RoleCaptain Role = "CAPTAIN"
)

// ParseRole validates a role string received from user input. Wire
// data is not routed through this — unknown roles from the server are
// preserved verbatim so a newer server does not break an older client.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleMember, RoleBoard, RoleCaptain:
		return Role(value), nil
	}
	return "", fmt.Errorf("unknown role %q (want MEMBER, BOARD, or CAPTAIN)", value)
}

// Label returns the human-readable role name for display and CSV
// export.
func (r Role) Label() string {
	switch r {
	case RoleMember:
		return "Member"
	case RoleBoard:
		return "Board"
	case RoleCaptain:
		return "Captain"
	default:
		return string(r)
	}
}

// Privileged reports whether the role may create and delete members,
// projects, and tickets.
func (r Role) Privileged() bool {
	return r == RoleBoard || r == RoleCaptain
}

// TeamMember is a person in the workspace. Inactive members are
// excluded from assignment pickers but retained for display on
// historical records that reference them.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}
