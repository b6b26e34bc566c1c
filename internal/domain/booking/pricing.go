package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

var DefaultPlatformRate = decimal.RequireFromString("0.10")

// CouponApplication is the validated result of the coupon collaborator.
type CouponApplication struct {
	Code string
	Rate decimal.Decimal
}

type Quote struct {
	HourlyRate     Money
	Hours          decimal.Decimal
	BaseAmount     Money
	PlatformCharge Money
	Discount       Money
	AmountPayable  Money
}

type PriceCalculator interface {
	Calculate(hourlyRate Money, interval Interval, coupon *CouponApplication) (Quote, error)
}

type DefaultPriceCalculator struct {
	platformRate decimal.Decimal
}

func NewDefaultPriceCalculator(platformRate decimal.Decimal) (*DefaultPriceCalculator, error) {
	if platformRate.IsNegative() {
		return nil, ErrInvalidPlatformRate
	}
	return &DefaultPriceCalculator{platformRate: platformRate}, nil
}

// Calculate keeps every intermediate exact; the payable amount is rounded once from the exact sum.
func (pc *DefaultPriceCalculator) Calculate(hourlyRate Money, interval Interval, coupon *CouponApplication) (Quote, error) {
	duration := interval.Duration()
	if duration <= 0 {
		return Quote{}, ErrNonPositiveDuration
	}
	if hourlyRate.Cents() <= 0 {
		return Quote{}, ErrNonPositiveRate
	}

	hours := decimal.NewFromInt(int64(duration)).Div(decimal.NewFromInt(int64(time.Hour)))
	base := hourlyRate.Decimal().Mul(hours)
	platform := base.Mul(pc.platformRate)

	discount := decimal.Zero
	if coupon != nil {
		if !coupon.Rate.IsPositive() || coupon.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return Quote{}, ErrInvalidCouponRate
		}
		discount = base.Mul(coupon.Rate)
	}

	payable := MoneyFromDecimal(base.Add(platform).Sub(discount))
	baseAmount := MoneyFromDecimal(base)
	discountAmount := MoneyFromDecimal(discount)

	// The rounded breakdown must add up to the payable amount. The platform charge takes the
	// rounding remainder, or the discount does when the charge would go negative.
	platformCents := payable.cents - baseAmount.cents + discountAmount.cents
	if platformCents < 0 {
		discountAmount = Money{cents: baseAmount.cents - payable.cents}
		platformCents = 0
	}

	return Quote{
		HourlyRate:     hourlyRate,
		Hours:          hours,
		BaseAmount:     baseAmount,
		PlatformCharge: Money{cents: platformCents},
		Discount:       discountAmount,
		AmountPayable:  payable,
	}, nil
}
