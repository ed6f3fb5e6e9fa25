package queries

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

type PricingQueries interface {
	Quote(ctx context.Context, unitID uuid.UUID, stay calendar.Range) (*PriceQuoteView, error)
}

type pricingQueriesImpl struct {
	uow     shared.UnitOfWork
	units   shared.UnitReader
	pricing reservation.PriceCalculator
}

func NewPricingQueries(uow shared.UnitOfWork, units shared.UnitReader, pricing reservation.PriceCalculator) PricingQueries {
	return &pricingQueriesImpl{uow: uow, units: units, pricing: pricing}
}

func (q *pricingQueriesImpl) Quote(ctx context.Context, unitID uuid.UUID, stay calendar.Range) (*PriceQuoteView, error) {
	u, err := findUnit(ctx, q.units, unitID)
	if err != nil {
		return nil, err
	}

	records, err := q.uow.Reads().Availability().GetRange(ctx, unitID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return nil, errs.Wrap(err, "load calendar")
	}
	quote := q.pricing.Price(u, stay, availability.NewCalendar(unitID, records))

	view := &PriceQuoteView{
		UnitID:               unitID,
		CheckIn:              stay.CheckIn().String(),
		CheckOut:             stay.CheckOut().String(),
		Nights:               quote.Nights,
		PerNight:             make([]NightPriceView, 0, len(quote.PerNight)),
		NightlySubtotalCents: quote.NightlySubtotal.Cents(),
		StayDiscountKind:     string(quote.StayDiscountKind),
		StayDiscountCents:    quote.StayDiscount.Cents(),
		BaseCents:            quote.Base.Cents(),
		CleaningFeeCents:     quote.CleaningFee.Cents(),
		ServiceFeeCents:      quote.ServiceFee.Cents(),
		TaxCents:             quote.Tax.Cents(),
		TotalCents:           quote.Subtotal().Cents(),
	}
	for _, n := range quote.PerNight {
		view.PerNight = append(view.PerNight, NightPriceView{
			Date:       n.Date.String(),
			PriceCents: n.Price.Cents(),
			Source:     string(n.Source),
		})
	}
	return view, nil
}
