// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role represents the authorization tier granted to an account.
type Role string

const (
	// Full administrative access, including user administration
	RoleDirector Role = "director"

	// Can manage employee records, leave requests, notes, and access logs
	RoleManager Role = "manager"

	// Legacy tier kept readable for pre-existing accounts. Privilege-equivalent
	// to manager; not grantable through registration.
	RoleAdmin Role = "admin"

	// Default tier for registered users; self-service operations only
	RoleEmployee Role = "employee"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate tiers. The legacy
	// admin tier shares the manager level: every "manager or above" gate
	// admits it, the director-only gate rejects it.
	switch r {
	case RoleDirector:
		return 30
	case RoleManager, RoleAdmin:
		return 20
	case RoleEmployee:
		return 10
	default:
		return 0
	}
}

// ClampRegisterable maps a requested role string onto the registration
// allow-list. Unrecognized values (including the legacy admin tier) silently
// downgrade to the least-privileged role.
func ClampRegisterable(requested string) Role {
	switch Role(requested) {
	case RoleDirector, RoleManager, RoleEmployee:
		return Role(requested)
	default:
		return RoleEmployee
	}
}
