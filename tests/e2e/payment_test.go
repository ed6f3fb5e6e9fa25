//go:build e2e

package e2e

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/handler/middleware"
	"stay-booking/internal/usecase/shared"
	"stay-booking/tests/common/authtest"
	"stay-booking/tests/common/dbtest"
	"stay-booking/tests/common/httptest"
)

type PaymentE2ETestSuite struct {
	SharedSuite
	host   authtest.Identity
	guest  authtest.Identity
	unitID uuid.UUID
}

func TestPaymentE2ETestSuite(t *testing.T) {
	suite.Run(t, new(PaymentE2ETestSuite))
}

func (s *PaymentE2ETestSuite) SetupTest() {
	s.SharedSuite.SetupTest()
	s.host = s.JWT.NewIdentity(s.T(), user.RoleHost)
	s.guest = s.JWT.NewIdentity(s.T(), user.RoleGuest)
	s.unitID = dbtest.CreateTestUnit(s.T(), s.DB, dbtest.DefaultUnit(s.host.ID))
}

func (s *PaymentE2ETestSuite) countJobs(topic string) int {
	var n int
	err := s.DB.QueryRow(s.T().Context(), "SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	s.Require().NoError(err)
	return n
}

func (s *PaymentE2ETestSuite) TestSignatureRequired() {
	res := s.mustCreateReservation(s.guest, s.unitID)
	body := reqdto.PaymentEventRequest{ReservationID: res.ID, TransactionID: "txn-1", Status: "completed", AmountCents: 35400}

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/internal/payments/events", body, "")
	httptest.AssertErrorCode(s.T(), w, http.StatusUnauthorized, httperr.CodeUnauthenticated)

	w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/internal/payments/events", body, "",
		map[string]string{middleware.PaymentSignatureHeader: "wrong"})
	httptest.AssertErrorCode(s.T(), w, http.StatusUnauthorized, httperr.CodeUnauthenticated)
}

func (s *PaymentE2ETestSuite) TestCompletedPaymentUnlocksConfirm() {
	res := s.mustCreateReservation(s.guest, s.unitID)

	w := s.reservationAction(s.host, res.ID, "confirm", nil)
	httptest.AssertErrorCode(s.T(), w, http.StatusConflict, httperr.CodeInvalidTransition)

	w = s.postPaymentEvent(res.ID, "txn-1", "completed", res.Amounts.TotalCents)
	var recorded resdto.PaymentEventResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &recorded)
	s.Equal("recorded", recorded.Outcome)

	w = s.postPaymentEvent(res.ID, "txn-1", "completed", res.Amounts.TotalCents)
	var duplicate resdto.PaymentEventResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &duplicate)
	s.Equal("ignored", duplicate.Outcome)

	w = s.reservationAction(s.host, res.ID, "confirm", nil)
	var confirmed resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &confirmed)
	s.Equal("confirmed", confirmed.Status)
	s.Nil(confirmed.PaymentExpiresAt)
	s.Equal(1, s.countJobs(shared.TopicReservationConfirmed))
}

func (s *PaymentE2ETestSuite) TestRefundCancelsAndReleases() {
	res := s.mustCreateReservation(s.guest, s.unitID)
	s.Equal(http.StatusOK, s.postPaymentEvent(res.ID, "txn-1", "completed", res.Amounts.TotalCents).Code)
	s.Equal(http.StatusOK, s.reservationAction(s.host, res.ID, "confirm", nil).Code)

	w := s.postPaymentEvent(res.ID, "txn-1", "refunded", res.Amounts.TotalCents)
	var refunded resdto.PaymentEventResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &refunded)
	s.Equal("reservation_cancelled", refunded.Outcome)

	s.Equal("cancelled", dbtest.ReservationStatus(s.T(), s.DB, res.ID))
	s.Equal(0, dbtest.CountHeldNights(s.T(), s.DB, res.ID))
}

func (s *PaymentE2ETestSuite) TestLatePaymentRequiresRefund() {
	res := s.mustCreateReservation(s.guest, s.unitID)
	s.Equal(http.StatusOK, s.reservationAction(s.guest, res.ID, "cancel", nil).Code)

	w := s.postPaymentEvent(res.ID, "txn-late", "completed", res.Amounts.TotalCents)
	var late resdto.PaymentEventResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &late)
	s.Equal("refund_required", late.Outcome)

	s.Equal("cancelled", dbtest.ReservationStatus(s.T(), s.DB, res.ID))
	s.Equal(1, s.countJobs(shared.TopicRefundRequired))
}

func (s *PaymentE2ETestSuite) TestUnknownReservation() {
	w := s.postPaymentEvent(uuid.New(), "txn-x", "completed", 1000)
	httptest.AssertErrorCode(s.T(), w, http.StatusNotFound, httperr.CodeNotFound)
}
