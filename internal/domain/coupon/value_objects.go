package coupon

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode = errors.New("invalid coupon code format")
	ErrInvalidRate       = errors.New("coupon rate must be within (0, 1]")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

// Rate is the fraction of the base amount taken off.
type Rate struct {
	value decimal.Decimal
}

func NewRate(v decimal.Decimal) (Rate, error) {
	if !v.IsPositive() || v.GreaterThan(decimal.NewFromInt(1)) {
		return Rate{}, ErrInvalidRate
	}
	return Rate{value: v}, nil
}

func (r Rate) Decimal() decimal.Decimal {
	return r.value
}
