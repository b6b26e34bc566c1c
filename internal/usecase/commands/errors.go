package commands

import (
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/pkg/errs"
)

var (
	ErrInvalidInterval         = errs.NewCategorized(errs.CategoryValidation, "invalid interval")
	ErrInvalidSlot             = errs.NewCategorized(errs.CategoryValidation, "invalid slot")
	ErrInvalidCoupon           = errs.NewCategorized(errs.CategoryValidation, "invalid coupon")
	ErrInvalidPaymentMethod    = errs.NewCategorized(errs.CategoryValidation, "invalid payment method")
	ErrPricing                 = errs.NewCategorized(errs.CategoryValidation, "price cannot be computed")
	ErrResourceNotFound        = errs.NewCategorized(errs.CategoryNotFound, "resource not found")
	ErrBookingNotFound         = errs.NewCategorized(errs.CategoryNotFound, "booking not found")
	ErrForbidden               = errs.NewCategorized(errs.CategoryForbidden, "booking not accessible")
	ErrSlotNotAvailable        = errs.NewCategorized(errs.CategoryConflict, "slot not available")
	ErrAlreadyConfirmed        = errs.NewCategorized(errs.CategoryConflict, "booking already confirmed")
	ErrBookingNotPending       = errs.NewCategorized(errs.CategoryConflict, "booking is not pending")
	ErrWrongConfirmationPath   = errs.NewCategorized(errs.CategoryValidation, "payment method does not match confirmation path")
	ErrUnsuccessfulTransaction = errs.NewCategorized(errs.CategoryPaymentMismatch, "unsuccessful transaction")
	ErrIdempotencyKeyReused    = errs.NewCategorized(errs.CategoryConflict, "idempotency key reused with a different request")
	ErrIdempotencyInProgress   = errs.NewCategorized(errs.CategoryConflict, "request with this idempotency key is in progress")
	ErrGatewayUnavailable      = errs.NewCategorized(errs.CategoryGatewayUnavailable, "payment gateway unavailable")
	ErrIntentNotCancelable     = errs.NewCategorized(errs.CategoryConflict, "payment intent cannot be canceled")
	ErrStoreFailure            = errs.NewCategorized(errs.CategoryTransientStore, "reservation store failure")
)

// storeErr keeps not-found and conflict outcomes and treats everything else as transient.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, ErrSlotNotAvailable)
	case errs.CategoryOf(err) != errs.CategoryUnknown:
		return err
	default:
		return errs.Mark(err, ErrStoreFailure)
	}
}
