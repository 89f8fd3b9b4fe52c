package domain

import dErrors "civreg/pkg/domain-errors"

// Role is the actor type that decides which dashboard is shown after login.
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries; direct casting bypasses
// validation.
type Role string

const (
	RoleParent   Role = "parent"
	RoleTownHall Role = "mairie"
	RoleHospital Role = "hopital"
)

var validRoles = map[Role]bool{
	RoleParent:   true,
	RoleTownHall: true,
	RoleHospital: true,
}

// Roles returns the supported roles in display order.
func Roles() []Role {
	return []Role{RoleParent, RoleTownHall, RoleHospital}
}

// ParseRole constructs a Role from external input. An empty string yields the
// default parent role, matching the login form's preselection.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleParent, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// DashboardRoute is the page a role lands on after login.
func (r Role) DashboardRoute() string {
	switch r {
	case RoleTownHall:
		return "/dashboard-mairie"
	case RoleHospital:
		return "/dashboard-hopital"
	default:
		return "/dashboard"
	}
}

// Label is the human-readable role name shown on the login page.
func (r Role) Label() string {
	switch r {
	case RoleTownHall:
		return "Mairie"
	case RoleHospital:
		return "Hôpital"
	default:
		return "Parent"
	}
}

// Description is the one-line purpose of the role.
func (r Role) Description() string {
	switch r {
	case RoleTownHall:
		return "Vérifier les dossiers"
	case RoleHospital:
		return "Vérifier les certificats"
	default:
		return "Déclarer une naissance"
	}
}

func (r Role) String() string {
	return string(r)
}
