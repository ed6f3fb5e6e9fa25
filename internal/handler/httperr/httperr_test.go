//go:build unit

package httperr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/errs"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "stay too short", err: unit.ErrStayShorterThanMin, wantStatus: http.StatusBadRequest, wantCode: CodeInvalidDateRange},
		{name: "reason too long", err: reservation.ErrReasonTooLong, wantStatus: http.StatusBadRequest, wantCode: CodeValidation},
		{name: "unit inactive", err: unit.ErrUnitInactive, wantStatus: http.StatusConflict, wantCode: CodeUnavailableRange},
		{name: "not found", err: reservation.ErrReservationNotFound, wantStatus: http.StatusNotFound, wantCode: CodeNotFound},
		{name: "invalid transition", err: reservation.ErrCheckInTooEarly, wantStatus: http.StatusConflict, wantCode: CodeInvalidTransition},
		{name: "coupon expired", err: coupon.ErrCouponExpired, wantStatus: http.StatusUnprocessableEntity, wantCode: CodeCouponNotApplicable},
		{name: "coupon exhausted", err: coupon.ErrCouponExhausted, wantStatus: http.StatusUnprocessableEntity, wantCode: CodeUsageLimitExceeded},
		{name: "wrapped conflict", err: errs.Wrap(errs.Mark(errs.New("stale"), errs.ErrConcurrencyConflict), "update"), wantStatus: http.StatusConflict, wantCode: CodeConcurrencyConflict},
		{name: "idempotency mismatch", err: errs.ErrIdempotencyMismatch, wantStatus: http.StatusUnprocessableEntity, wantCode: CodeIdempotencyMismatch},
		{name: "unmarked", err: errs.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
