package request

import (
	"strings"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/patch"
)

// UpsertCalendarRequest writes the same fields on every date in [from, to).
type UpsertCalendarRequest struct {
	From                  string  `json:"from" binding:"required"`
	To                    string  `json:"to" binding:"required"`
	IsAvailable           *bool   `json:"isAvailable,omitempty"`
	IsBlocked             *bool   `json:"isBlocked,omitempty"`
	BlockReason           *string `json:"blockReason,omitempty"`
	CustomPriceCents      *int64  `json:"customPriceCents,omitempty"`
	MinimumNightsOverride *int    `json:"minimumNightsOverride,omitempty"`
}

func (r UpsertCalendarRequest) ToDomain() (calendar.Range, availability.Fields, error) {
	span, err := ParseSpan(r.From, r.To)
	if err != nil {
		return calendar.Range{}, availability.Fields{}, err
	}

	fields := availability.Fields{
		IsAvailable:           patch.Coalesce(r.IsAvailable, true),
		IsBlocked:             patch.Coalesce(r.IsBlocked, false),
		MinimumNightsOverride: r.MinimumNightsOverride,
	}
	if r.BlockReason != nil {
		if reason := strings.TrimSpace(*r.BlockReason); reason != "" {
			fields.BlockReason = &reason
		}
	}
	if r.CustomPriceCents != nil {
		price, err := money.NewMoney(*r.CustomPriceCents)
		if err != nil {
			return calendar.Range{}, availability.Fields{}, err
		}
		fields.CustomPrice = &price
	}

	if err := fields.Validate(); err != nil {
		return calendar.Range{}, availability.Fields{}, err
	}
	return span, fields, nil
}

// ParseSpan parses a half-open [from, to) date window.
func ParseSpan(from, to string) (calendar.Range, error) {
	return parseStay(from, to)
}
