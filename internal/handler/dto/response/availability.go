package response

import (
	"time"

	"slot-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ZoneAvailabilityResponse struct {
	Zone              string   `json:"zone"`
	Capacity          int      `json:"capacity"`
	RemainingCapacity int      `json:"remainingCapacity"`
	HourlyRateCents   int64    `json:"hourlyRateCents"`
	OccupiedSlots     []string `json:"occupiedSlots"`
}

type AvailabilityResponse struct {
	ResourceID        uuid.UUID                  `json:"resourceId"`
	From              time.Time                  `json:"from"`
	To                time.Time                  `json:"to"`
	IsOpenNow         bool                       `json:"isOpenNow"`
	TotalCapacity     int                        `json:"totalCapacity"`
	RemainingCapacity int                        `json:"remainingCapacity"`
	OccupiedSlots     []string                   `json:"occupiedSlots"`
	Zones             []ZoneAvailabilityResponse `json:"zones"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	zones := make([]ZoneAvailabilityResponse, len(v.Zones))
	for i, z := range v.Zones {
		zones[i] = ZoneAvailabilityResponse(z)
	}
	return &AvailabilityResponse{
		ResourceID:        v.ResourceID,
		From:              v.From,
		To:                v.To,
		IsOpenNow:         v.IsOpenNow,
		TotalCapacity:     v.TotalCapacity,
		RemainingCapacity: v.RemainingCapacity,
		OccupiedSlots:     v.OccupiedSlots,
		Zones:             zones,
	}
}
