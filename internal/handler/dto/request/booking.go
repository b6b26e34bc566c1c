package request

import (
	"slot-reservation-engine/internal/domain/booking"
)

// ConfirmRequest carries optional evidence captured at confirmation.
type ConfirmRequest struct {
	VehiclePlateImageRef *string `json:"vehiclePlateImageRef,omitempty" binding:"omitempty,max=512"`
	Note                 *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

func (r ConfirmRequest) ToEvidence() *booking.Evidence {
	ref, note := trimmedOrNil(r.VehiclePlateImageRef), trimmedOrNil(r.Note)
	if ref == nil && note == nil {
		return nil
	}
	ev := &booking.Evidence{}
	if ref != nil {
		ev.VehiclePlateImageRef = *ref
	}
	if note != nil {
		ev.Note = *note
	}
	return ev
}
