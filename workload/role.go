package workload

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// IsPrivileged reports whether r may act on any user's records for any date.
// Roles outside the closed set are never privileged.
func IsPrivileged(r Role) bool {
	return r == RoleAdmin || r == RoleManager
}
