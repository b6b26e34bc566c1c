package booking

import "errors"

var (
	ErrInvalidInterval      = errors.New("interval start must be before its end")
	ErrInvalidZoneCode      = errors.New("zone code must be 1-3 uppercase letters")
	ErrInvalidSlot          = errors.New("invalid slot")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNonPositiveDuration  = errors.New("duration must be positive")
	ErrNonPositiveRate      = errors.New("hourly rate must be positive")
	ErrInvalidCouponRate    = errors.New("coupon rate must be within (0, 1]")
	ErrInvalidPlatformRate  = errors.New("platform rate cannot be negative")
	ErrNegativeMoney        = errors.New("money cannot be negative")
	ErrAlreadyConfirmed     = errors.New("booking already confirmed")
	ErrNotPending           = errors.New("booking is not pending")
	ErrIntentNotAllowed     = errors.New("payment intent is only valid for card bookings")
	ErrMissingCustomer      = errors.New("customer is required")
	ErrMissingResource      = errors.New("resource is required")
)
