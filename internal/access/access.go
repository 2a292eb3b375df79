// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package access implements role-based access control for the Djembe platform.

It defines the closed set of roles, the permissions each role is granted, and
the permission test consumed by route guards and middleware.

# Architecture

The grant table is static and lives in code: permissions derive from a role
lookup, never from per-account grants. Checks are pure functions over their
inputs — no I/O, no retries, no failure modes beyond the boolean fail-closed
default. An unrecognized role yields an empty permission set, so a corrupted
or future role value can never grant anything.
*/
package access

import "github.com/djembe-app/djembe/internal/platform/sec"

// # Roles & Permissions

// Role is the authorization level assigned to an account.
type Role string

const (
	// RoleAdmin has unrestricted access, including role management.
	RoleAdmin Role = "admin"

	// RoleManager can write content and manage member accounts.
	RoleManager Role = "manager"

	// RoleEditor can read and write content.
	RoleEditor Role = "editor"

	// RoleUser is the default read-only role for registered members.
	RoleUser Role = "user"
)

// Permission is a single named capability.
type Permission string

const (
	PermissionRead        Permission = "read"
	PermissionWrite       Permission = "write"
	PermissionDelete      Permission = "delete"
	PermissionManageUsers Permission = "manage_users"
	PermissionManageRoles Permission = "manage_roles"
)

// Roles is the closed set of known roles, in descending order of privilege.
var Roles = []Role{RoleAdmin, RoleManager, RoleEditor, RoleUser}

// grantTable maps each known role to its granted permission set.
//
// Invariant: every role in [Roles] has an entry; no other entries exist.
var grantTable = map[Role][]Permission{
	RoleAdmin:   {PermissionRead, PermissionWrite, PermissionDelete, PermissionManageUsers, PermissionManageRoles},
	RoleManager: {PermissionRead, PermissionWrite, PermissionManageUsers},
	RoleEditor:  {PermissionRead, PermissionWrite},
	RoleUser:    {PermissionRead},
}

// # Permission Checks

// IsKnown reports whether r is one of the four known roles.
func (r Role) IsKnown() bool {
	_, ok := grantTable[r]
	return ok
}

// Has reports whether the role is granted the permission.
//
// Unknown roles hold no permissions (fail-closed).
func (r Role) Has(permission Permission) bool {
	for _, granted := range grantTable[r] {
		if granted == permission {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the permission set granted to the role.
//
// Unknown roles return an empty (non-nil) slice.
func PermissionsFor(r Role) []Permission {
	granted := grantTable[r]
	out := make([]Permission, len(granted))
	copy(out, granted)
	return out
}

// HasPermission is the RBAC consumer interface for route guards.
//
// It returns false when the request is unauthenticated (nil principal),
// false for unrecognized roles, and never panics. Total and deterministic
// over its inputs.
func HasPermission(principal *sec.Principal, permission Permission) bool {
	if principal == nil {
		return false
	}
	return Role(principal.Role).Has(permission)
}
