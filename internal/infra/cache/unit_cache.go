package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

const unitKeyPrefix = "stay-booking:unit:"

// UnitCache is a read-through Redis cache in front of the unit catalog.
// Redis failures fall back to the source; they are never returned to callers.
type UnitCache struct {
	client *redis.Client
	source shared.UnitReader
	ttl    time.Duration
}

// NewUnitCache returns source unchanged when client is nil.
func NewUnitCache(client *redis.Client, source shared.UnitReader, ttl time.Duration) shared.UnitReader {
	if client == nil || ttl <= 0 {
		return source
	}
	return &UnitCache{client: client, source: source, ttl: ttl}
}

func (c *UnitCache) FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	key := unitKeyPrefix + id.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		u, decodeErr := decodeUnit(raw)
		if decodeErr == nil {
			return u, nil
		}
		slog.Warn("discarding undecodable cached unit", "unit_id", id, "error", decodeErr.Error())
	case !errs.Is(err, redis.Nil):
		slog.Warn("unit cache read failed", "unit_id", id, "error", err.Error())
	}

	u, err := c.source.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if encoded, err := encodeUnit(u); err == nil {
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			slog.Warn("unit cache write failed", "unit_id", id, "error", err.Error())
		}
	}
	return u, nil
}

// cachedUnit is the wire form of a unit; amounts are cents and percents basis points.
type cachedUnit struct {
	ID                 uuid.UUID `json:"id"`
	HostID             uuid.UUID `json:"host_id"`
	Name               string    `json:"name"`
	BasePriceCents     int64     `json:"base_price_cents"`
	WeekendPriceCents  *int64    `json:"weekend_price_cents,omitempty"`
	WeeklyDiscountBps  *int64    `json:"weekly_discount_bps,omitempty"`
	MonthlyDiscountBps *int64    `json:"monthly_discount_bps,omitempty"`
	MinimumNights      int       `json:"minimum_nights"`
	MaximumNights      *int      `json:"maximum_nights,omitempty"`
	Active             bool      `json:"active"`
}

func encodeUnit(u *unit.Unit) ([]byte, error) {
	cu := cachedUnit{
		ID:             u.ID(),
		HostID:         u.HostID(),
		Name:           u.Name(),
		BasePriceCents: u.BasePrice().Cents(),
		MinimumNights:  u.MinimumNights(),
		MaximumNights:  u.MaximumNights(),
		Active:         u.IsActive(),
	}
	if p := u.WeekendPrice(); p != nil {
		cents := p.Cents()
		cu.WeekendPriceCents = &cents
	}
	if p := u.WeeklyDiscount(); p != nil {
		bps := p.BasisPoints()
		cu.WeeklyDiscountBps = &bps
	}
	if p := u.MonthlyDiscount(); p != nil {
		bps := p.BasisPoints()
		cu.MonthlyDiscountBps = &bps
	}
	return json.Marshal(cu)
}

func decodeUnit(raw []byte) (*unit.Unit, error) {
	var cu cachedUnit
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, err
	}

	p := unit.Params{
		ID:            cu.ID,
		HostID:        cu.HostID,
		Name:          cu.Name,
		BasePrice:     money.FromCents(cu.BasePriceCents),
		MinimumNights: cu.MinimumNights,
		MaximumNights: cu.MaximumNights,
		Active:        cu.Active,
	}
	if cu.WeekendPriceCents != nil {
		m := money.FromCents(*cu.WeekendPriceCents)
		p.WeekendPrice = &m
	}
	if cu.WeeklyDiscountBps != nil {
		pct := money.PercentFromBasisPoints(*cu.WeeklyDiscountBps)
		p.WeeklyDiscount = &pct
	}
	if cu.MonthlyDiscountBps != nil {
		pct := money.PercentFromBasisPoints(*cu.MonthlyDiscountBps)
		p.MonthlyDiscount = &pct
	}
	return unit.NewUnit(p)
}
