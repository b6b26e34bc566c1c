package api

import (
	"net/http"

	"slot-reservation-engine/internal/handler/httperr"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type publicError struct {
	sentinel error
	code     string
}

// checked in order; the first sentinel the error matches names the response code
var publicErrors = []publicError{
	{commands.ErrSlotNotAvailable, "SLOT_NOT_AVAILABLE"},
	{commands.ErrAlreadyConfirmed, "ALREADY_CONFIRMED"},
	{commands.ErrBookingNotPending, "BOOKING_NOT_PENDING"},
	{commands.ErrUnsuccessfulTransaction, "UNSUCCESSFUL_TRANSACTION"},
	{commands.ErrWrongConfirmationPath, "WRONG_CONFIRMATION_PATH"},
	{commands.ErrInvalidInterval, "INVALID_INTERVAL"},
	{commands.ErrInvalidSlot, "INVALID_SLOT"},
	{commands.ErrInvalidCoupon, "INVALID_COUPON"},
	{commands.ErrInvalidPaymentMethod, "INVALID_PAYMENT_METHOD"},
	{commands.ErrPricing, "PRICING_ERROR"},
	{commands.ErrResourceNotFound, "RESOURCE_NOT_FOUND"},
	{commands.ErrBookingNotFound, "BOOKING_NOT_FOUND"},
	{commands.ErrForbidden, "FORBIDDEN"},
	{commands.ErrIdempotencyKeyReused, "IDEMPOTENCY_KEY_REUSED"},
	{commands.ErrIdempotencyInProgress, "IDEMPOTENCY_IN_PROGRESS"},
	{commands.ErrGatewayUnavailable, "GATEWAY_UNAVAILABLE"},
	{commands.ErrStoreFailure, "TRANSIENT_STORE_FAILURE"},
	{queries.ErrInvalidCursor, "INVALID_CURSOR"},
	{queries.ErrInvalidInterval, "INVALID_INTERVAL"},
	{queries.ErrResourceNotFound, "RESOURCE_NOT_FOUND"},
	{queries.ErrBookingNotFound, "BOOKING_NOT_FOUND"},
	{queries.ErrForbidden, "FORBIDDEN"},
	{queries.ErrReadFailure, "TRANSIENT_STORE_FAILURE"},
}

const retryAfterSeconds = "1"

// abortWithUseCaseError renders a use-case error with the status its category maps to.
func abortWithUseCaseError(c *gin.Context, err error) {
	category := errs.CategoryOf(err)
	status := httperr.StatusFor(category)
	if errs.Retryable(err) {
		c.Header("Retry-After", retryAfterSeconds)
	}
	if status == http.StatusInternalServerError {
		httperr.AbortWithError(c, status, err, "Internal error", nil)
		return
	}

	for _, pe := range publicErrors {
		if errs.Is(err, pe.sentinel) {
			httperr.AbortWithCode(c, status, err, pe.code, pe.sentinel.Error(), nil)
			return
		}
	}
	httperr.AbortWithCode(c, status, err, string(category), "Request failed", nil)
}

func abortUnauthenticated(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
}

var errUnauthenticated = errs.New("no authenticated principal")
