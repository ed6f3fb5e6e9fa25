//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/user"
	"stay-booking/internal/handler/api"
	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/queries"
	"stay-booking/internal/usecase/shared"
	"stay-booking/tests/common/builder"
	"stay-booking/tests/common/httptest"
	"stay-booking/tests/common/testutil"
	commandsmock "stay-booking/tests/mock/commands"
	queriesmock "stay-booking/tests/mock/queries"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockBooking *commandsmock.MockBookingCommands
	mockCoupons *commandsmock.MockCouponCommands
	mockQueries *queriesmock.MockReservationQueries
	handler     *api.ReservationHandler
	actorID     uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockBooking = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockCoupons = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockBooking, s.mockCoupons, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware; the token value names the role
	authMiddleware := func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": httperr.CodeUnauthenticated, "message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", user.Role(strings.TrimPrefix(header, "Bearer ")))
		c.Next()
	}

	g := s.router.Group("/reservations", authMiddleware)
	g.POST("", s.handler.CreateReservation)
	g.GET("", s.handler.ListMyReservations)
	g.GET("/:id", s.handler.GetReservation)
	g.POST("/:id/confirm", s.handler.Confirm)
	g.POST("/:id/reject", s.handler.Reject)
	g.POST("/:id/cancel", s.handler.Cancel)
	g.POST("/:id/check-in", s.handler.CheckIn)
	g.POST("/:id/check-out", s.handler.CheckOut)
	g.POST("/:id/complete", s.handler.Complete)
	g.POST("/:id/no-show", s.handler.MarkNoShow)
	g.POST("/:id/reschedule", s.handler.Reschedule)
	g.POST("/:id/coupon", s.handler.ApplyCoupon)
	g.DELETE("/:id/coupon", s.handler.RemoveCoupon)
	g.GET("/:id/review-eligibility", s.handler.ReviewEligibility)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) guest() user.Actor {
	return user.Actor{ID: s.actorID, Role: user.RoleGuest}
}

func idempotencyHeader(key string) map[string]string {
	return map[string]string{api.IdempotencyKeyHeader: key}
}

type testCaseReservation struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreateReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	b := builder.NewReservationBuilder().WithGuest(s.actorID)
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()
	key := uuid.New()

	s.Run("success: 201 Created with the reservation and its amounts", func() {
		s.mockBooking.EXPECT().Create(gomock.Any(), reqBody, s.guest(), key).
			Return(&commands.CreateResult{ReservationID: view.ID}, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "guest", idempotencyHeader(key.String()))

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("pending", body.Status)
		s.Equal(view.TotalCents, body.Amounts.TotalCents)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/reservations/" + view.ID.String()})
	})

	s.Run("success: replay returns 200 with the original reservation", func() {
		s.mockBooking.EXPECT().Create(gomock.Any(), reqBody, s.guest(), key).
			Return(&commands.CreateResult{ReservationID: view.ID, IsReplayed: true}, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "guest", idempotencyHeader(key.String()))

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		httptest.AssertHeaders(s.T(), rec, map[string]string{api.IdempotentReplayedHeader: "true"})
	})

	s.Run("error: 400 when the Idempotency-Key header is missing or malformed", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeIdempotencyKeyRequired)

		rec = httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "guest", idempotencyHeader("not-a-uuid"))
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeIdempotencyKeyRequired)
	})

	s.Run("error: 400 on missing fields", func() {
		missing := []testCaseReservation{
			{name: "missing field: unitId (required)", mutate: testutil.Field("unitId", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: checkIn (required)", mutate: testutil.Field("checkIn", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: checkOut (required)", mutate: testutil.Field("checkOut", nil), expectCode: http.StatusBadRequest},
		}
		for _, tc := range missing {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, "guest", idempotencyHeader(uuid.NewString()))
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 401 when unauthenticated", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "", idempotencyHeader(key.String()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{"invalid date range", errs.Wrap(reservation.ErrCheckInInPast, "create"), http.StatusBadRequest, httperr.CodeInvalidDateRange},
			{"nights already held", shared.ErrRangeOverlaps, http.StatusConflict, httperr.CodeUnavailableRange},
			{"coupon not applicable", coupon.ErrCouponExpired, http.StatusUnprocessableEntity, httperr.CodeCouponNotApplicable},
			{"coupon exhausted", coupon.ErrCouponExhausted, http.StatusUnprocessableEntity, httperr.CodeUsageLimitExceeded},
			{"key still processing", errs.ErrIdempotencyInProgress, http.StatusConflict, httperr.CodeIdempotencyInProgress},
			{"key reused with another body", errs.ErrIdempotencyMismatch, http.StatusUnprocessableEntity, httperr.CodeIdempotencyMismatch},
			{"retries exhausted", errs.ErrConcurrencyConflict, http.StatusConflict, httperr.CodeConcurrencyConflict},
			{"unexpected failure", errors.New("database error"), http.StatusInternalServerError, httperr.CodeInternal},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockBooking.EXPECT().Create(gomock.Any(), reqBody, s.guest(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "guest", idempotencyHeader(uuid.NewString()))
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})

	s.Run("error: internal failures do not leak their message", func() {
		s.mockBooking.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("pq: connection refused")).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "guest", idempotencyHeader(uuid.NewString()))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
		s.NotContains(rec.Body.String(), "connection refused")
	})
}

// ================================================================================
// TestGetReservation
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	view := builder.NewReservationBuilder().WithGuest(s.actorID).BuildView()

	s.Run("success: 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "guest")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.Code, body.Code)
		s.Equal(view.UnitName, body.UnitName)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/nope", nil, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), view.ID).
			Return(nil, reservation.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "guest")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "reservation not found")
	})

	s.Run("error: 403 for another guest's reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), view.ID).
			Return(nil, reservation.ErrNotReservationGuest).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, httperr.CodeUnauthorized)
	})
}

// ================================================================================
// TestListMyReservations
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListMyReservations() {
	item := builder.NewReservationBuilder().WithGuest(s.actorID).BuildListItem()

	s.Run("success: first page with next cursor", func() {
		next := &queries.Cursor{After: "djE6MTIz"}
		s.mockQueries.EXPECT().ListByGuest(gomock.Any(), s.guest(), (*queries.Cursor)(nil), 0).
			Return([]*queries.ReservationListItem{item}, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "guest")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Items, 1)
		s.Equal(item.ID, body.Items[0].ID)
		s.Require().NotNil(body.NextCursor)
		s.Equal(next.After, *body.NextCursor)
	})

	s.Run("success: passes cursor and limit through", func() {
		s.mockQueries.EXPECT().ListByGuest(gomock.Any(), s.guest(), &queries.Cursor{After: "abc"}, 5).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?after=abc&limit=5", nil, "guest")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
		s.Nil(body.NextCursor)
	})

	s.Run("error: 400 on non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?limit=ten", nil, "guest")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
	})

	s.Run("error: 400 on a bad cursor", func() {
		s.mockQueries.EXPECT().ListByGuest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?after=garbage", nil, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeValidation)
	})
}

// ================================================================================
// TestTransitions
// ================================================================================

func (s *ReservationHandlerTestSuite) TestTransitions() {
	host := user.Actor{ID: s.actorID, Role: user.RoleHost}
	view := builder.NewReservationBuilder().WithStatus("confirmed").BuildView()
	base := "/reservations/" + view.ID.String()

	simple := []struct {
		path   string
		expect func() *gomock.Call
	}{
		{"/confirm", func() *gomock.Call { return s.mockBooking.EXPECT().Confirm(gomock.Any(), view.ID, host) }},
		{"/check-in", func() *gomock.Call { return s.mockBooking.EXPECT().CheckIn(gomock.Any(), view.ID, host) }},
		{"/check-out", func() *gomock.Call { return s.mockBooking.EXPECT().CheckOut(gomock.Any(), view.ID, host) }},
		{"/complete", func() *gomock.Call { return s.mockBooking.EXPECT().Complete(gomock.Any(), view.ID, host) }},
		{"/no-show", func() *gomock.Call { return s.mockBooking.EXPECT().MarkNoShow(gomock.Any(), view.ID, host) }},
	}

	for _, tc := range simple {
		s.Run("success: "+tc.path+" returns the reloaded reservation", func() {
			tc.expect().Return(nil).Times(1)
			s.mockQueries.EXPECT().GetByID(gomock.Any(), host, view.ID).Return(view, nil).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+tc.path, nil, "host")

			var body resdto.ReservationResponse
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
			s.Equal(view.ID, body.ID)
		})
	}

	s.Run("error: 409 on an illegal transition", func() {
		s.mockBooking.EXPECT().Confirm(gomock.Any(), view.ID, host).
			Return(errs.Mark(errs.New("cannot move reservation from cancelled to confirmed"), errs.ErrInvalidTransition)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/confirm", nil, "host")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, httperr.CodeInvalidTransition)
	})

	s.Run("error: 409 when payment is still required", func() {
		s.mockBooking.EXPECT().Confirm(gomock.Any(), view.ID, host).
			Return(errs.Wrap(payment.ErrPaymentRequired, "confirm")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/confirm", nil, "host")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "a completed payment is required first")
	})

	s.Run("error: 409 when checking in early", func() {
		s.mockBooking.EXPECT().CheckIn(gomock.Any(), view.ID, host).
			Return(errs.Wrap(reservation.ErrCheckInTooEarly, "check in")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/check-in", nil, "host")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "check-in date has not arrived")
	})

	s.Run("success: cancel forwards the reason", func() {
		s.mockBooking.EXPECT().Cancel(gomock.Any(), view.ID, "change of plans", s.guest()).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/cancel",
			reqdto.ReasonRequest{Reason: "change of plans"}, "guest")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: cancel without a body", func() {
		s.mockBooking.EXPECT().Cancel(gomock.Any(), view.ID, "", s.guest()).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/cancel", nil, "guest")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when the reason is too long", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/reject",
			reqdto.ReasonRequest{Reason: strings.Repeat("a", 501)}, "host")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
	})

	s.Run("error: 403 when the host does not own the unit", func() {
		s.mockBooking.EXPECT().Reject(gomock.Any(), view.ID, "", host).Return(reservation.ErrNotUnitHost).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/reject", nil, "host")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, httperr.CodeUnauthorized)
	})
}

// ================================================================================
// TestReschedule
// ================================================================================

func (s *ReservationHandlerTestSuite) TestReschedule() {
	b := builder.NewReservationBuilder().WithGuest(s.actorID)
	view := b.BuildView()
	url := "/reservations/" + view.ID.String() + "/reschedule"
	reqBody := b.With(func(b *builder.ReservationBuilder) {
		b.CheckIn = "2030-07-01"
		b.CheckOut = "2030-07-04"
	}).BuildRescheduleRequestDTO()

	s.Run("success: 200 OK", func() {
		s.mockBooking.EXPECT().Reschedule(gomock.Any(), view.ID, reqBody, s.guest()).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 409 when new dates overlap", func() {
		s.mockBooking.EXPECT().Reschedule(gomock.Any(), view.ID, reqBody, s.guest()).Return(shared.ErrRangeOverlaps).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, httperr.CodeUnavailableRange)
	})

	s.Run("error: 400 on missing checkOut", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("checkOut", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, httperr.CodeInvalidRequest)
	})
}

// ================================================================================
// TestCoupon
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCoupon() {
	view := builder.NewReservationBuilder().WithGuest(s.actorID).WithCoupon("SUMMER10").BuildView()
	url := "/reservations/" + view.ID.String() + "/coupon"
	reqBody := reqdto.ApplyCouponRequest{Code: "summer10"}

	s.Run("success: apply returns the discount and the repriced reservation", func() {
		discount, _ := money.NewMoney(3000)
		s.mockCoupons.EXPECT().Apply(gomock.Any(), view.ID, reqBody, s.guest()).Return(discount, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")

		var body resdto.CouponAppliedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(3000), body.DiscountCents)
		s.Require().NotNil(body.Reservation)
		s.Equal("SUMMER10", *body.Reservation.CouponCode)
	})

	s.Run("error: 422 when the coupon is not applicable", func() {
		s.mockCoupons.EXPECT().Apply(gomock.Any(), view.ID, reqBody, s.guest()).
			Return(money.Money{}, coupon.ErrBelowMinimumAmount).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnprocessableEntity, httperr.CodeCouponNotApplicable)
	})

	s.Run("error: 404 for an unknown code", func() {
		s.mockCoupons.EXPECT().Apply(gomock.Any(), view.ID, reqBody, s.guest()).
			Return(money.Money{}, coupon.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "guest")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, httperr.CodeNotFound)
	})

	s.Run("success: remove", func() {
		s.mockCoupons.EXPECT().Remove(gomock.Any(), view.ID, s.guest()).Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.guest(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "guest")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: remove when nothing is applied", func() {
		s.mockCoupons.EXPECT().Remove(gomock.Any(), view.ID, s.guest()).Return(coupon.ErrRedemptionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "guest")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "reservation has no coupon applied")
	})
}

// ================================================================================
// TestReviewEligibility
// ================================================================================

func (s *ReservationHandlerTestSuite) TestReviewEligibility() {
	id := uuid.New()

	s.Run("success: completed stay is eligible", func() {
		s.mockQueries.EXPECT().ReviewEligibility(gomock.Any(), s.guest(), id).
			Return(&queries.ReviewEligibilityView{ReservationID: id, Eligible: true, Status: "completed"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+id.String()+"/review-eligibility", nil, "guest")

		var body resdto.ReviewEligibilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Eligible)
		s.Equal("completed", body.Status)
	})
}
