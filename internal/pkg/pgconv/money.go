package pgconv

import (
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/money"
)

func MoneyFromNumeric(pn pgtype.Numeric) (money.Money, error) {
	cents, _, err := HundredthsFromNumeric(pn)
	if err != nil {
		return money.Zero(), err
	}
	return money.FromCents(cents), nil
}

func MoneyPtrFromNumeric(pn pgtype.Numeric) (*money.Money, error) {
	cents, ok, err := HundredthsFromNumeric(pn)
	if err != nil || !ok {
		return nil, err
	}
	m := money.FromCents(cents)
	return &m, nil
}

func MoneyToNumeric(m money.Money) pgtype.Numeric {
	return NumericFromHundredths(m.Cents())
}

func MoneyPtrToNumeric(m *money.Money) pgtype.Numeric {
	if m == nil {
		return pgtype.Numeric{}
	}
	return MoneyToNumeric(*m)
}

func PercentPtrFromNumeric(pn pgtype.Numeric) (*money.Percent, error) {
	bps, ok, err := HundredthsFromNumeric(pn)
	if err != nil || !ok {
		return nil, err
	}
	p := money.PercentFromBasisPoints(bps)
	return &p, nil
}

func PercentPtrToNumeric(p *money.Percent) pgtype.Numeric {
	if p == nil {
		return pgtype.Numeric{}
	}
	return NumericFromHundredths(p.BasisPoints())
}
