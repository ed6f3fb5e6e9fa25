package user

import (
	"github.com/google/uuid"

	"stay-booking/internal/pkg/errs"
)

var ErrInvalidRole = errs.Mark(errs.New("invalid role"), errs.ErrUnauthorized)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Actor is the authenticated caller as supplied by the identity context.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// System is used for transitions the service performs on its own (expiry, payment callbacks).
var System = Actor{ID: uuid.Nil, Role: RoleAdmin}
