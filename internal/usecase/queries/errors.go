package queries

import (
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/pkg/errs"
)

var (
	ErrInvalidInterval  = errs.NewCategorized(errs.CategoryValidation, "invalid interval")
	ErrInvalidCursor    = errs.NewCategorized(errs.CategoryValidation, "invalid cursor")
	ErrResourceNotFound = errs.NewCategorized(errs.CategoryNotFound, "resource not found")
	ErrBookingNotFound  = errs.NewCategorized(errs.CategoryNotFound, "booking not found")
	ErrForbidden        = errs.NewCategorized(errs.CategoryForbidden, "booking not accessible")
	ErrReadFailure      = errs.NewCategorized(errs.CategoryTransientStore, "read store failure")
)

func readErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, ErrReadFailure)
}
