package errs

import "errors"

// Error kinds surfaced to callers. Specific errors are marked with one of these
// so callers can branch on the kind while keeping the concrete reason.
var (
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrUnavailableRange    = errors.New("unavailable range")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrCouponNotApplicable = errors.New("coupon not applicable")
	ErrUsageLimitExceeded  = errors.New("usage limit exceeded")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnauthorized        = errors.New("unauthorized")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different request")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// Kind returns the first error kind err is marked with, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if Is(err, k) {
			return k
		}
	}
	return nil
}

var kinds = []error{
	ErrInvalidDateRange,
	ErrUnavailableRange,
	ErrNotFound,
	ErrInvalidTransition,
	ErrCouponNotApplicable,
	ErrUsageLimitExceeded,
	ErrConcurrencyConflict,
	ErrUnauthorized,
	ErrDomainValidation,
	ErrIdempotencyKeyRequired,
	ErrIdempotencyInProgress,
	ErrIdempotencyMismatch,
	ErrDatabaseOperationFailed,
}
