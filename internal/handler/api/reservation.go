package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/handler/middleware"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/queries"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

var (
	errInvalidIdempotencyKey = errs.Mark(errs.New("invalid idempotency key format"), errs.ErrIdempotencyKeyRequired)
	errMissingActor          = errs.New("authenticated actor missing from context")
)

type ReservationHandler struct {
	booking commands.BookingCommands
	coupons commands.CouponCommands
	q       queries.ReservationQueries
}

func NewReservationHandler(booking commands.BookingCommands, coupons commands.CouponCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{booking: booking, coupons: coupons, q: q}
}

// @Summary Create reservation
// @Description Create a pending reservation; replays with the same Idempotency-Key return the original
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key (UUID)"
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Success 200 {object} resdto.ReservationResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.BadRequest(c, bindErr, "Invalid request format")
		return
	}

	result, err := h.booking.Create(c.Request.Context(), req, actor, idempotencyKey)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, result.ReservationID)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
		c.Header(IdempotentReplayedHeader, "true")
	}
	c.Header("Location", "/api/reservations/"+result.ReservationID.String())
	c.JSON(status, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	h.respondWithReservation(c, actor, id)
}

// @Summary List my reservations
// @Description Newest first, keyset paginated
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, err, "Invalid limit")
			return
		}
		limit = n
	}
	var after *queries.Cursor
	if raw := c.Query("after"); raw != "" {
		after = &queries.Cursor{After: raw}
	}

	items, next, err := h.q.ListByGuest(c.Request.Context(), actor, after, limit)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationListItems(items, next))
}

// @Summary Confirm reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.runTransition(c, h.booking.Confirm)
}

// @Summary Reject reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReasonRequest false "Reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c *gin.Context) {
	h.runReasonTransition(c, h.booking.Reject)
}

// @Summary Cancel reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReasonRequest false "Reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.runReasonTransition(c, h.booking.Cancel)
}

// @Summary Check guest in
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.runTransition(c, h.booking.CheckIn)
}

// @Summary Check guest out
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.runTransition(c, h.booking.CheckOut)
}

// @Summary Complete reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(c *gin.Context) {
	h.runTransition(c, h.booking.Complete)
}

// @Summary Mark reservation as no-show
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/no-show [post]
func (h *ReservationHandler) MarkNoShow(c *gin.Context) {
	h.runTransition(c, h.booking.MarkNoShow)
}

// @Summary Reschedule reservation
// @Description Move a pending or confirmed reservation to new dates and re-price it
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.RescheduleReservationRequest true "New dates"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/reservations/{id}/reschedule [post]
func (h *ReservationHandler) Reschedule(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.RescheduleReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	if err := h.booking.Reschedule(c.Request.Context(), id, req, actor); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	h.respondWithReservation(c, actor, id)
}

// @Summary Apply coupon
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} resdto.CouponAppliedResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/reservations/{id}/coupon [post]
func (h *ReservationHandler) ApplyCoupon(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	discount, err := h.coupons.Apply(c.Request.Context(), id, req, actor)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CouponAppliedResponse{
		DiscountCents: discount.Cents(),
		Reservation:   resdto.FromReservationView(view),
	})
}

// @Summary Remove coupon
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id}/coupon [delete]
func (h *ReservationHandler) RemoveCoupon(c *gin.Context) {
	h.runTransition(c, h.coupons.Remove)
}

// @Summary Review eligibility
// @Description Whether the caller may review this stay
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReviewEligibilityResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id}/review-eligibility [get]
func (h *ReservationHandler) ReviewEligibility(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.ReviewEligibility(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewEligibilityView(view))
}

type transitionFunc func(ctx context.Context, id uuid.UUID, actor user.Actor) error

type reasonTransitionFunc func(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) error

func (h *ReservationHandler) runTransition(c *gin.Context, fn transitionFunc) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id, actor); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	h.respondWithReservation(c, actor, id)
}

func (h *ReservationHandler) runReasonTransition(c *gin.Context, fn reasonTransitionFunc) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.ReasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, err, "Invalid request format")
			return
		}
	}
	if err := fn(c.Request.Context(), id, req.Reason, actor); err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	h.respondWithReservation(c, actor, id)
}

func (h *ReservationHandler) respondWithReservation(c *gin.Context, actor user.Actor, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader(IdempotencyKeyHeader)
	if keyStr == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errInvalidIdempotencyKey
	}

	return key, nil
}

func actorOrAbort(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, errMissingActor, "Unauthorized", nil)
		return user.Actor{}, false
	}
	return actor, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
