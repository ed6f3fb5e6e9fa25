package unit

import (
	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/errs"
)

var ErrNotUnitManager = errs.Mark(errs.New("only the host of the unit or an admin may manage its calendar"), errs.ErrUnauthorized)

// AuthorizeManage allows the unit's host and admins to edit the calendar.
func (u *Unit) AuthorizeManage(actor user.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == user.RoleHost && u.IsOwnedBy(actor.ID) {
		return nil
	}
	return ErrNotUnitManager
}
