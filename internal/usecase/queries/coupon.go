package queries

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

var ErrInvalidNights = errs.Mark(errs.New("nights must be at least 1"), errs.ErrDomainValidation)

type CouponQueries interface {
	FindApplicable(ctx context.Context, unitID uuid.UUID, actor user.Actor, bookingAmount money.Money, nights int) ([]CouponView, error)
}

type couponQueriesImpl struct {
	uow    shared.UnitOfWork
	units  shared.UnitReader
	engine *shared.CouponEngine
}

func NewCouponQueries(uow shared.UnitOfWork, units shared.UnitReader, engine *shared.CouponEngine) CouponQueries {
	return &couponQueriesImpl{uow: uow, units: units, engine: engine}
}

// FindApplicable lists the coupons the caller could redeem on this unit for
// the given booking amount, best first.
func (q *couponQueriesImpl) FindApplicable(ctx context.Context, unitID uuid.UUID, actor user.Actor, bookingAmount money.Money, nights int) ([]CouponView, error) {
	if nights < 1 {
		return nil, ErrInvalidNights
	}
	if _, err := findUnit(ctx, q.units, unitID); err != nil {
		return nil, err
	}

	var found []*coupon.Coupon
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		found, err = q.engine.FindApplicable(ctx, tx, unitID, actor.ID, bookingAmount, nights)
		return err
	})
	if err != nil {
		return nil, err
	}

	views := make([]CouponView, 0, len(found))
	for _, c := range found {
		view := CouponView{
			ID:                   c.ID(),
			Code:                 c.Code().String(),
			DiscountType:         string(c.Discount().Type()),
			DiscountValue:        c.Discount().Value(),
			EstimatedSavingCents: c.CalculateDiscount(bookingAmount).Cents(),
			Priority:             c.Priority(),
			EndsAt:               c.EndsAt(),
		}
		if maxDiscount := c.MaxDiscount(); maxDiscount != nil {
			cents := maxDiscount.Cents()
			view.MaxDiscountCents = &cents
		}
		views = append(views, view)
	}
	return views, nil
}
