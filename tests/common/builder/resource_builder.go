//go:build unit || e2e

package builder

import (
	"time"

	"slot-reservation-engine/internal/domain/resource"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID       uuid.UUID
	Kind     resource.Kind
	OwnerID  uuid.UUID
	Name     string
	Zones    []resource.Zone
	Schedule resource.WeeklySchedule
	Timezone *time.Location
	Location *resource.Location
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:      uuid.New(),
		Kind:    resource.KindGarage,
		OwnerID: uuid.New(),
		Name:    "Central Garage",
		Zones: []resource.Zone{
			MustZone("A", 2, 10000),
			MustZone("B", 1, 5000),
		},
		Schedule: resource.NewWeeklySchedule(nil),
		Timezone: time.UTC,
		Location: &resource.Location{Latitude: 35.6812, Longitude: 139.7671},
	}
}

// MustZone panics on invalid input; fixtures only.
func MustZone(code string, capacity int, hourlyRateCents int64) resource.Zone {
	z, err := resource.NewZone(code, capacity, hourlyRateCents)
	if err != nil {
		panic(err)
	}
	return z
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

func (b *ResourceBuilder) WithKind(kind resource.Kind) *ResourceBuilder {
	b.Kind = kind
	return b
}

func (b *ResourceBuilder) WithName(name string) *ResourceBuilder {
	b.Name = name
	return b
}

func (b *ResourceBuilder) WithOwner(ownerID uuid.UUID) *ResourceBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *ResourceBuilder) WithZones(zones ...resource.Zone) *ResourceBuilder {
	b.Zones = zones
	return b
}

func (b *ResourceBuilder) WithSchedule(s resource.WeeklySchedule) *ResourceBuilder {
	b.Schedule = s
	return b
}

func (b *ResourceBuilder) BuildDomain() (*resource.BookableResource, error) {
	return resource.NewBookableResource(resource.Params{
		ID:       b.ID,
		Kind:     b.Kind,
		OwnerID:  b.OwnerID,
		Name:     b.Name,
		Zones:    b.Zones,
		Schedule: b.Schedule,
		Timezone: b.Timezone,
		Location: b.Location,
	})
}

func (b *ResourceBuilder) MustBuildDomain() *resource.BookableResource {
	r, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return r
}
