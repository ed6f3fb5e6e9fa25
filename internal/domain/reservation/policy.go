package reservation

import (
	"github.com/google/uuid"

	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrNotReservationGuest = errs.Mark(errs.New("only the guest who made the reservation may do this"), errs.ErrUnauthorized)
	ErrNotUnitHost         = errs.Mark(errs.New("only the host of the unit may do this"), errs.ErrUnauthorized)
	ErrRoleNotPermitted    = errs.Mark(errs.New("role is not permitted to perform this action"), errs.ErrUnauthorized)
)

type Action string

const (
	ActionCreate       Action = "create"
	ActionView         Action = "view"
	ActionConfirm      Action = "confirm"
	ActionReject       Action = "reject"
	ActionCancel       Action = "cancel"
	ActionCheckIn      Action = "check_in"
	ActionCheckOut     Action = "check_out"
	ActionComplete     Action = "complete"
	ActionNoShow       Action = "no_show"
	ActionReschedule   Action = "reschedule"
	ActionManageCoupon Action = "manage_coupon"
)

// Authorize decides whether actor may perform action on a reservation held by
// guestID on a unit hosted by hostID. Admins may do anything.
func Authorize(action Action, actor user.Actor, guestID, hostID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case ActionCreate, ActionCancel, ActionReschedule, ActionManageCoupon:
		if actor.Role != user.RoleGuest {
			return ErrRoleNotPermitted
		}
		if actor.ID != guestID {
			return ErrNotReservationGuest
		}
		return nil
	case ActionConfirm, ActionReject, ActionCheckIn, ActionCheckOut, ActionComplete, ActionNoShow:
		if actor.Role != user.RoleHost {
			return ErrRoleNotPermitted
		}
		if actor.ID != hostID {
			return ErrNotUnitHost
		}
		return nil
	case ActionView:
		if actor.ID == guestID || (actor.Role == user.RoleHost && actor.ID == hostID) {
			return nil
		}
		return ErrNotReservationGuest
	default:
		return ErrRoleNotPermitted
	}
}
