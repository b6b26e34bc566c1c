package booking

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

// MoneyFromDecimal rounds half-up to two decimal places.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{cents: d.Round(2).Shift(2).IntPart()}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
