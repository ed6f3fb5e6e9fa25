package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stay-booking/internal/domain/money"
	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/queries"
)

var errNightsTooFew = errs.New("nights must be at least 1")

type UnitHandler struct {
	availability queries.AvailabilityQueries
	pricing      queries.PricingQueries
	coupons      queries.CouponQueries
	calendar     commands.CalendarCommands
}

func NewUnitHandler(
	availability queries.AvailabilityQueries,
	pricing queries.PricingQueries,
	coupons queries.CouponQueries,
	calendar commands.CalendarCommands,
) *UnitHandler {
	return &UnitHandler{
		availability: availability,
		pricing:      pricing,
		coupons:      coupons,
		calendar:     calendar,
	}
}

// @Summary Check availability
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Param checkIn query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOut query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/units/{id}/availability [get]
func (h *UnitHandler) CheckAvailability(c *gin.Context) {
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stay, err := reqdto.ParseSpan(c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	view, err := h.availability.Check(c.Request.Context(), unitID, stay)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Quote price
// @Description Per-night breakdown with stay discount, fees and tax
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Param checkIn query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOut query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} queries.PriceQuoteView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/units/{id}/price [get]
func (h *UnitHandler) QuotePrice(c *gin.Context) {
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stay, err := reqdto.ParseSpan(c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	quote, err := h.pricing.Quote(c.Request.Context(), unitID, stay)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// @Summary Get calendar
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} resdto.CalendarResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/units/{id}/calendar [get]
func (h *UnitHandler) GetCalendar(c *gin.Context) {
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	span, err := reqdto.ParseSpan(c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	days, err := h.availability.Calendar(c.Request.Context(), unitID, span)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCalendarDays(unitID, span.CheckIn().String(), span.CheckOut().String(), days))
}

// @Summary Update calendar
// @Description Write availability, blocks, custom prices or minimum nights across [from, to)
// @Tags units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Unit ID"
// @Param request body reqdto.UpsertCalendarRequest true "Calendar fields"
// @Success 200 {object} resdto.CalendarWriteResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/units/{id}/calendar [put]
func (h *UnitHandler) UpsertCalendar(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpsertCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	records, err := h.calendar.UpsertRange(c.Request.Context(), unitID, req, actor)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityRecords(unitID, records))
}

// @Summary Clear calendar overrides
// @Description Remove stored records in [from, to); nights held by reservations are kept
// @Tags units
// @Produce json
// @Security BearerAuth
// @Param id path string true "Unit ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "End date, exclusive (YYYY-MM-DD)"
// @Success 200 {object} resdto.CalendarDeleteResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/units/{id}/calendar [delete]
func (h *UnitHandler) DeleteCalendar(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	span, err := reqdto.ParseSpan(c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	deleted, err := h.calendar.DeleteRange(c.Request.Context(), unitID, span, actor)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CalendarDeleteResponse{UnitID: unitID, Deleted: deleted})
}

// @Summary List applicable coupons
// @Description Coupons the caller could use on a booking of the given amount, best saving first
// @Tags units
// @Produce json
// @Security BearerAuth
// @Param id path string true "Unit ID"
// @Param amount query int true "Booking amount in cents"
// @Param nights query int true "Number of nights"
// @Success 200 {object} resdto.CouponListResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/units/{id}/coupons [get]
func (h *UnitHandler) ListApplicableCoupons(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	unitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	cents, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, err, "Invalid amount")
		return
	}
	amount, err := money.NewMoney(cents)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	nights, err := strconv.Atoi(c.Query("nights"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid nights")
		return
	}
	if nights < 1 {
		httperr.BadRequest(c, errNightsTooFew, "Invalid nights")
		return
	}

	views, err := h.coupons.FindApplicable(c.Request.Context(), unitID, actor, amount, nights)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponViews(unitID, views))
}
