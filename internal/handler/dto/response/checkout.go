package response

import (
	"time"

	"slot-reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutResponse struct {
	BookingID          uuid.UUID `json:"bookingId"`
	Status             string    `json:"status"`
	PaymentMethod      string    `json:"paymentMethod"`
	SlotID             string    `json:"slotId"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Currency           string    `json:"currency"`
	HourlyRate         string    `json:"hourlyRate"`
	Hours              string    `json:"hours"`
	BaseAmount         string    `json:"baseAmount"`
	PlatformCharge     string    `json:"platformCharge"`
	Discount           string    `json:"discount"`
	AmountPayable      string    `json:"amountPayable"`
	AmountPayableCents int64     `json:"amountPayableCents"`
	PaymentIntentID    *string   `json:"paymentIntentId,omitempty"`
	ClientSecret       *string   `json:"clientSecret,omitempty"`
}

func FromCheckoutResult(r *commands.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		BookingID:          r.BookingID,
		Status:             r.Status.String(),
		PaymentMethod:      r.PaymentMethod.String(),
		SlotID:             r.Slot.String(),
		From:               r.Interval.From(),
		To:                 r.Interval.To(),
		Currency:           r.Currency,
		HourlyRate:         r.Quote.HourlyRate.String(),
		Hours:              r.Quote.Hours.String(),
		BaseAmount:         r.Quote.BaseAmount.String(),
		PlatformCharge:     r.Quote.PlatformCharge.String(),
		Discount:           r.Quote.Discount.String(),
		AmountPayable:      r.Quote.AmountPayable.String(),
		AmountPayableCents: r.Quote.AmountPayable.Cents(),
		PaymentIntentID:    r.IntentID,
		ClientSecret:       r.ClientSecret,
	}
}
