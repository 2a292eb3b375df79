// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

// wantGrants mirrors the full grant table so the test fails loudly whenever
// the table drifts.
var wantGrants = map[access.Role]map[access.Permission]bool{
	access.RoleAdmin: {
		access.PermissionRead:        true,
		access.PermissionWrite:       true,
		access.PermissionDelete:      true,
		access.PermissionManageUsers: true,
		access.PermissionManageRoles: true,
	},
	access.RoleManager: {
		access.PermissionRead:        true,
		access.PermissionWrite:       true,
		access.PermissionDelete:      false,
		access.PermissionManageUsers: true,
		access.PermissionManageRoles: false,
	},
	access.RoleEditor: {
		access.PermissionRead:        true,
		access.PermissionWrite:       true,
		access.PermissionDelete:      false,
		access.PermissionManageUsers: false,
		access.PermissionManageRoles: false,
	},
	access.RoleUser: {
		access.PermissionRead:        true,
		access.PermissionWrite:       false,
		access.PermissionDelete:      false,
		access.PermissionManageUsers: false,
		access.PermissionManageRoles: false,
	},
}

var allPermissions = []access.Permission{
	access.PermissionRead,
	access.PermissionWrite,
	access.PermissionDelete,
	access.PermissionManageUsers,
	access.PermissionManageRoles,
}

/*
TestGrantTable exhaustively checks every (role, permission) pair against the
expected grant table.
*/
func TestGrantTable(t *testing.T) {
	for role, grants := range wantGrants {
		for _, permission := range allPermissions {
			got := role.Has(permission)
			assert.Equal(t, grants[permission], got,
				"role %q / permission %q", role, permission)
		}
	}
}

/*
TestUnknownRole_FailsClosed verifies that roles outside the closed set hold
no permissions at all.
*/
func TestUnknownRole_FailsClosed(t *testing.T) {
	unknownRoles := []access.Role{"", "superadmin", "ADMIN", "guest"}

	for _, role := range unknownRoles {
		assert.False(t, role.IsKnown(), "role %q should be unknown", role)
		assert.Empty(t, access.PermissionsFor(role))

		for _, permission := range allPermissions {
			assert.False(t, role.Has(permission),
				"unknown role %q must not hold %q", role, permission)
		}
	}
}

/*
TestHasPermission_NilPrincipal verifies that unauthenticated requests are
always denied without panicking.
*/
func TestHasPermission_NilPrincipal(t *testing.T) {
	for _, permission := range allPermissions {
		assert.False(t, access.HasPermission(nil, permission))
	}
}

/*
TestHasPermission_Principal checks the consumer-facing helper against a
representative set of principals.
*/
func TestHasPermission_Principal(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission access.Permission
		want       bool
	}{
		{"admin_manage_roles", "admin", access.PermissionManageRoles, true},
		{"manager_manage_users", "manager", access.PermissionManageUsers, true},
		{"manager_delete_denied", "manager", access.PermissionDelete, false},
		{"editor_write", "editor", access.PermissionWrite, true},
		{"user_read_only", "user", access.PermissionWrite, false},
		{"unknown_role_denied", "owner", access.PermissionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal := &sec.Principal{AccountID: 1, Role: tt.role}
			assert.Equal(t, tt.want, access.HasPermission(principal, tt.permission))
		})
	}
}

/*
TestPermissionsFor_ReturnsCopy ensures callers cannot mutate the grant table
through the returned slice.
*/
func TestPermissionsFor_ReturnsCopy(t *testing.T) {
	first := access.PermissionsFor(access.RoleUser)
	first[0] = access.PermissionManageRoles

	second := access.PermissionsFor(access.RoleUser)
	assert.Equal(t, []access.Permission{access.PermissionRead}, second)
}
