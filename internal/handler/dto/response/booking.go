package response

import (
	"time"

	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                  uuid.UUID  `json:"id"`
	ResourceID          uuid.UUID  `json:"resourceId"`
	ResourceName        string     `json:"resourceName"`
	ResourceKind        string     `json:"resourceKind"`
	OwnerID             uuid.UUID  `json:"ownerId"`
	CustomerID          uuid.UUID  `json:"customerId"`
	SlotID              string     `json:"slotId"`
	From                time.Time  `json:"from"`
	To                  time.Time  `json:"to"`
	Status              string     `json:"status"`
	PaymentMethod       string     `json:"paymentMethod"`
	HourlyRateCents     int64      `json:"hourlyRateCents"`
	BaseAmountCents     int64      `json:"baseAmountCents"`
	PlatformChargeCents int64      `json:"platformChargeCents"`
	DiscountCents       int64      `json:"discountCents"`
	AmountPayableCents  int64      `json:"amountPayableCents"`
	Currency            *string    `json:"currency,omitempty"`
	IntentID            *string    `json:"paymentIntentId,omitempty"`
	CouponCode          *string    `json:"couponCode,omitempty"`
	VehicleID           *string    `json:"vehicleId,omitempty"`
	EvidenceImageRef    *string    `json:"evidenceImageRef,omitempty"`
	EvidenceNote        *string    `json:"evidenceNote,omitempty"`
	FailureReason       *string    `json:"failureReason,omitempty"`
	PaidAt              *time.Time `json:"paidAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type BookingListItemResponse struct {
	ID                 uuid.UUID `json:"id"`
	ResourceID         uuid.UUID `json:"resourceId"`
	ResourceName       string    `json:"resourceName"`
	SlotID             string    `json:"slotId"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	Status             string    `json:"status"`
	PaymentMethod      string    `json:"paymentMethod"`
	AmountPayableCents int64     `json:"amountPayableCents"`
	CreatedAt          time.Time `json:"createdAt"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, errs.Wrap(err, "map booking view")
	}
	return &resp, nil
}

func FromBookingList(items []*queries.BookingListItem) ([]*BookingListItemResponse, error) {
	res := make([]*BookingListItemResponse, len(items))
	for i, it := range items {
		var r BookingListItemResponse
		if err := copier.Copy(&r, it); err != nil {
			return nil, errs.Wrapf(err, "map booking list item %d", i)
		}
		res[i] = &r
	}
	return res, nil
}
