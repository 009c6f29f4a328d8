package domain

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of console roles. The zero value is not a role.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleEmployee
	RoleManager
	RoleClient
)

const (
	labelAdmin    = "Admin"
	labelEmployee = "Employé"
	labelManager  = "Manager"
	labelClient   = "Client"
)

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEmployee, RoleManager, RoleClient}
}

// ParseRole maps the persisted label back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case labelAdmin:
		return RoleAdmin, nil
	case labelEmployee:
		return RoleEmployee, nil
	case labelManager:
		return RoleManager, nil
	case labelClient:
		return RoleClient, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return labelAdmin
	case RoleEmployee:
		return labelEmployee
	case RoleManager:
		return labelManager
	case RoleClient:
		return labelClient
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid reports whether r is one of the four declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleManager, RoleClient:
		return true
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
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

// UnmarshalJSON rejects non-string role values instead of accepting numbers.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownRole, string(b))
	}
	return r.UnmarshalText([]byte(s))
}

// RoleSet is a small bit set of roles.
type RoleSet uint8

// NewRoleSet builds a set from the given roles, ignoring invalid ones.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Roles returns the members in display order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, 4)
	for _, r := range Roles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
