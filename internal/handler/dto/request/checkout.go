package request

import (
	"strings"
	"time"

	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CheckoutRequest struct {
	ResourceID    uuid.UUID `json:"resourceId" binding:"required"`
	Zone          string    `json:"zone" binding:"required,min=1,max=3"`
	Numeral       int       `json:"numeral" binding:"required,min=1,max=999"`
	From          time.Time `json:"from" binding:"required"`
	To            time.Time `json:"to" binding:"required"`
	PaymentMethod string    `json:"paymentMethod" binding:"required,oneof=CARD CASH card cash"`
	CouponCode    *string   `json:"couponCode,omitempty" binding:"omitempty,max=20"`
	VehicleID     *string   `json:"vehicleId,omitempty" binding:"omitempty,max=32"`
}

func (r CheckoutRequest) GetCouponCode() *string {
	return trimmedOrNil(r.CouponCode)
}

func (r CheckoutRequest) ToInput(customer user.Principal) (commands.CheckoutInput, error) {
	var in commands.CheckoutInput
	if err := copier.Copy(&in, &r); err != nil {
		return commands.CheckoutInput{}, err
	}
	in.Zone = strings.ToUpper(strings.TrimSpace(r.Zone))
	in.CouponCode = r.GetCouponCode()
	in.VehicleID = trimmedOrNil(r.VehicleID)
	in.Customer = customer
	return in, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
