package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stay-booking/internal/pkg/errs"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Stable codes returned to clients, one per error kind.
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidDateRange       = "INVALID_DATE_RANGE"
	CodeValidation             = "VALIDATION_FAILED"
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeUnavailableRange       = "UNAVAILABLE_RANGE"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeCouponNotApplicable    = "COUPON_NOT_APPLICABLE"
	CodeUsageLimitExceeded     = "USAGE_LIMIT_EXCEEDED"
	CodeIdempotencyKeyRequired = "IDEMPOTENCY_KEY_REQUIRED"
	CodeIdempotencyInProgress  = "IDEMPOTENCY_IN_PROGRESS"
	CodeIdempotencyMismatch    = "IDEMPOTENCY_MISMATCH"
	CodeInternal               = "INTERNAL"
)

type mapping struct {
	status int
	code   string
}

var kindMappings = map[error]mapping{
	errs.ErrInvalidDateRange:        {http.StatusBadRequest, CodeInvalidDateRange},
	errs.ErrDomainValidation:        {http.StatusBadRequest, CodeValidation},
	errs.ErrUnauthorized:            {http.StatusForbidden, CodeUnauthorized},
	errs.ErrNotFound:                {http.StatusNotFound, CodeNotFound},
	errs.ErrUnavailableRange:        {http.StatusConflict, CodeUnavailableRange},
	errs.ErrInvalidTransition:       {http.StatusConflict, CodeInvalidTransition},
	errs.ErrConcurrencyConflict:     {http.StatusConflict, CodeConcurrencyConflict},
	errs.ErrCouponNotApplicable:     {http.StatusUnprocessableEntity, CodeCouponNotApplicable},
	errs.ErrUsageLimitExceeded:      {http.StatusUnprocessableEntity, CodeUsageLimitExceeded},
	errs.ErrIdempotencyKeyRequired:  {http.StatusBadRequest, CodeIdempotencyKeyRequired},
	errs.ErrIdempotencyInProgress:   {http.StatusConflict, CodeIdempotencyInProgress},
	errs.ErrIdempotencyMismatch:     {http.StatusUnprocessableEntity, CodeIdempotencyMismatch},
	errs.ErrDatabaseOperationFailed: {http.StatusInternalServerError, CodeInternal},
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithKind picks status and code from the error kind err is marked with.
// Internal failures never leak their message.
func AbortWithKind(c *gin.Context, err error) {
	status, code := StatusFor(err)
	msg := errs.Reason(err)
	if status >= http.StatusInternalServerError {
		msg = "Internal server error"
	}
	AbortWithError(c, status, code, err, msg, nil)
}

func BadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, CodeInvalidRequest, err, msg, nil)
}

func StatusFor(err error) (int, string) {
	if kind := errs.Kind(err); kind != nil {
		if m, ok := kindMappings[kind]; ok {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}
