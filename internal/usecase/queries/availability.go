package queries

import (
	"context"
	"sort"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityQueries interface {
	Availability(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (*AvailabilityView, error)
}

// OccupancyReader lists slots holding a SUCCESS booking that overlaps the interval.
type OccupancyReader interface {
	OccupiedSlots(ctx context.Context, resourceID uuid.UUID, interval booking.Interval) ([]booking.SlotID, error)
}

type availabilityQueriesImpl struct {
	catalog   shared.ResourceCatalog
	occupancy OccupancyReader
	clock     clock.Clock
}

func NewAvailabilityQueries(catalog shared.ResourceCatalog, occupancy OccupancyReader, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{
		catalog:   catalog,
		occupancy: occupancy,
		clock:     clk,
	}
}

func (q *availabilityQueriesImpl) Availability(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (*AvailabilityView, error) {
	interval, err := booking.NewInterval(from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	res, err := q.catalog.ResourceByID(ctx, resourceID)
	if err != nil {
		return nil, readErr(err, ErrResourceNotFound)
	}

	occupied, err := q.occupancy.OccupiedSlots(ctx, resourceID, interval)
	if err != nil {
		return nil, readErr(err, nil)
	}

	byZone := make(map[booking.ZoneCode]map[string]struct{})
	for _, slot := range occupied {
		set, ok := byZone[slot.Zone()]
		if !ok {
			set = make(map[string]struct{})
			byZone[slot.Zone()] = set
		}
		set[slot.String()] = struct{}{}
	}

	view := &AvailabilityView{
		ResourceID:    res.ID(),
		From:          interval.From(),
		To:            interval.To(),
		IsOpenNow:     res.IsOpenAt(q.clock.Now()),
		OccupiedSlots: []string{},
		Zones:         make([]ZoneAvailability, 0, len(res.Zones())),
	}

	for _, zone := range res.Zones() {
		slots := make([]string, 0, len(byZone[zone.Code()]))
		for s := range byZone[zone.Code()] {
			slots = append(slots, s)
		}
		sort.Strings(slots)

		remaining := zone.Capacity() - len(slots)
		if remaining < 0 {
			remaining = 0
		}

		view.Zones = append(view.Zones, ZoneAvailability{
			Zone:              zone.Code().String(),
			Capacity:          zone.Capacity(),
			RemainingCapacity: remaining,
			HourlyRateCents:   zone.HourlyRate().Cents(),
			OccupiedSlots:     slots,
		})
		view.TotalCapacity += zone.Capacity()
		view.RemainingCapacity += remaining
		view.OccupiedSlots = append(view.OccupiedSlots, slots...)
	}

	return view, nil
}
