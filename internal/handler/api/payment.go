package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reqdto "stay-booking/internal/handler/dto/request"
	resdto "stay-booking/internal/handler/dto/response"
	"stay-booking/internal/handler/httperr"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/usecase/commands"
)

type PaymentHandler struct {
	payments commands.PaymentCommands
	clock    clock.Clock
}

func NewPaymentHandler(payments commands.PaymentCommands, clk clock.Clock) *PaymentHandler {
	return &PaymentHandler{payments: payments, clock: clk}
}

// @Summary Payment status callback
// @Description Receives payment status changes from the payment provider
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Payment-Signature header string true "Shared webhook secret"
// @Param request body reqdto.PaymentEventRequest true "Payment event"
// @Success 200 {object} resdto.PaymentEventResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /internal/payments/events [post]
func (h *PaymentHandler) HandleEvent(c *gin.Context) {
	var req reqdto.PaymentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	event, err := req.ToDomain(h.clock.Now())
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	outcome, err := h.payments.HandleEvent(c.Request.Context(), event)
	if err != nil {
		httperr.AbortWithKind(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PaymentEventResponse{
		ReservationID: event.ReservationID,
		TransactionID: event.TransactionID,
		Outcome:       string(outcome),
	})
}
