//go:build e2e

package e2e

import (
	"net/http"
	nethttptest "net/http/httptest"

	"github.com/google/uuid"

	"stay-booking/internal/handler/api"
	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/middleware"
	"stay-booking/tests/common/authtest"
	"stay-booking/tests/common/httptest"
)

// 2031-03-03 is a Monday, so none of these nights hit the Saturday rate.
const (
	stayCheckIn  = "2031-03-03"
	stayCheckOut = "2031-03-06"
)

func (s *SharedSuite) createReservation(who authtest.Identity, key uuid.UUID, req reqdto.CreateReservationRequest) *nethttptest.ResponseRecorder {
	return httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations", req, who.Token,
		map[string]string{api.IdempotencyKeyHeader: key.String()})
}

func (s *SharedSuite) mustCreateReservation(who authtest.Identity, unitID uuid.UUID) resdto.ReservationResponse {
	w := s.createReservation(who, uuid.New(), reqdto.CreateReservationRequest{
		UnitID:   unitID,
		CheckIn:  stayCheckIn,
		CheckOut: stayCheckOut,
	})
	var out resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &out)
	s.Require().NotEqual(uuid.Nil, out.ID)
	return out
}

func (s *SharedSuite) postPaymentEvent(reservationID uuid.UUID, txn, status string, amountCents int64) *nethttptest.ResponseRecorder {
	body := reqdto.PaymentEventRequest{
		ReservationID: reservationID,
		TransactionID: txn,
		Status:        status,
		AmountCents:   amountCents,
	}
	return httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/internal/payments/events", body, "",
		map[string]string{middleware.PaymentSignatureHeader: s.Config.Payments.WebhookSecret})
}

func (s *SharedSuite) reservationAction(who authtest.Identity, id uuid.UUID, action string, body any) *nethttptest.ResponseRecorder {
	return httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/reservations/"+id.String()+"/"+action, body, who.Token)
}

func reqCreate(unitID uuid.UUID, couponCode *string) reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		UnitID:     unitID,
		CheckIn:    stayCheckIn,
		CheckOut:   stayCheckOut,
		CouponCode: couponCode,
	}
}
