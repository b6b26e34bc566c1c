package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleCustomer Role = "customer"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleMerchant, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller as reported by the identity service.
type Principal struct {
	ID    uuid.UUID
	Role  Role
	Email string
	Name  string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
