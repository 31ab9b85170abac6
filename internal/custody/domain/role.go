package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds. The zero value is not a role.
type Role uint8

const (
	RoleStudent Role = iota + 1
	RoleAdmin
	RoleManagement
)

// Roles lists every role, in declaration order.
var Roles = []Role{RoleStudent, RoleAdmin, RoleManagement}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "STUDENT"
	case RoleAdmin:
		return "ADMIN"
	case RoleManagement:
		return "MANAGEMENT"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleManagement:
		return true
	default:
		return false
	}
}

// ParseRole accepts the wire names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STUDENT":
		return RoleStudent, nil
	case "ADMIN":
		return RoleAdmin, nil
	case "MANAGEMENT":
		return RoleManagement, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot encode invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
