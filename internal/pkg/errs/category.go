package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Category classifies a failure by how the caller can recover from it.
type Category string

const (
	CategoryUnknown            Category = "UNKNOWN"
	CategoryValidation         Category = "VALIDATION"
	CategoryNotFound           Category = "NOT_FOUND"
	CategoryForbidden          Category = "FORBIDDEN"
	CategoryConflict           Category = "CONFLICT"
	CategoryPaymentMismatch    Category = "PAYMENT_MISMATCH"
	CategoryTransientStore     Category = "TRANSIENT_STORE_FAILURE"
	CategoryGatewayUnavailable Category = "GATEWAY_UNAVAILABLE"
)

// categorized is a sentinel that carries its own category. Each sentinel keeps a distinct
// identity under Is; the category is read back by CategoryOf.
type categorized struct {
	msg      string
	category Category
}

func (e *categorized) Error() string { return e.msg }

// withCategory attaches a category to an arbitrary error without changing its message.
type withCategory struct {
	cause    error
	category Category
}

func (w *withCategory) Error() string { return w.cause.Error() }
func (w *withCategory) Unwrap() error { return w.cause }

// NewCategorized creates a sentinel that reports the given category.
func NewCategorized(category Category, msg string) error {
	return &categorized{msg: msg, category: category}
}

func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &withCategory{cause: err, category: category}
}

// CategoryOf returns the outermost category found on the error chain.
func CategoryOf(err error) Category {
	for c := err; c != nil; c = cr.UnwrapOnce(c) {
		switch e := c.(type) {
		case *withCategory:
			return e.category
		case *categorized:
			return e.category
		}
	}
	return CategoryUnknown
}

// Retryable reports whether the whole operation may be retried as-is.
func Retryable(err error) bool {
	switch CategoryOf(err) {
	case CategoryTransientStore, CategoryGatewayUnavailable:
		return true
	default:
		return false
	}
}
