package resource

import (
	"errors"
	"strings"
	"time"

	"slot-reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind      = errors.New("invalid resource kind")
	ErrInvalidWindow    = errors.New("invalid opening window")
	ErrInvalidCapacity  = errors.New("zone capacity must be at least 1")
	ErrNoZones          = errors.New("resource must have at least one zone")
	ErrDuplicateZone    = errors.New("zone codes must be unique within a resource")
	ErrZoneNotFound     = errors.New("zone not found")
	ErrNumeralOutOfZone = errors.New("slot numeral exceeds zone capacity")
	ErrInvalidLocation  = errors.New("invalid geolocation")
	ErrEmptyName        = errors.New("resource name cannot be empty")
	ErrNameTooLong      = errors.New("resource name is too long (max 255 characters)")
)

const MaxNameLength = 255

type Zone struct {
	code       booking.ZoneCode
	capacity   int
	hourlyRate booking.Money
}

func NewZone(code string, capacity int, hourlyRateCents int64) (Zone, error) {
	zc, err := booking.NewZoneCode(code)
	if err != nil {
		return Zone{}, err
	}
	if capacity < 1 {
		return Zone{}, ErrInvalidCapacity
	}
	rate, err := booking.NewMoney(hourlyRateCents)
	if err != nil || rate.IsZero() {
		return Zone{}, booking.ErrNonPositiveRate
	}
	return Zone{code: zc, capacity: capacity, hourlyRate: rate}, nil
}

func (z Zone) Code() booking.ZoneCode    { return z.code }
func (z Zone) Capacity() int             { return z.capacity }
func (z Zone) HourlyRate() booking.Money { return z.hourlyRate }

// Slots enumerates every slot id of the zone in numeral order.
func (z Zone) Slots() []booking.SlotID {
	out := make([]booking.SlotID, 0, z.capacity)
	for n := 1; n <= z.capacity; n++ {
		s, _ := booking.NewSlotID(z.code, n)
		out = append(out, s)
	}
	return out
}

type Location struct {
	Latitude  float64
	Longitude float64
}

func NewLocation(lat, lng float64) (Location, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, ErrInvalidLocation
	}
	return Location{Latitude: lat, Longitude: lng}, nil
}

// BookableResource is one merchant-owned place; Kind only tags the variant.
type BookableResource struct {
	id       uuid.UUID
	kind     Kind
	ownerID  uuid.UUID
	name     string
	zones    []Zone
	schedule WeeklySchedule
	timezone *time.Location
	location *Location
}

type Params struct {
	ID       uuid.UUID
	Kind     Kind
	OwnerID  uuid.UUID
	Name     string
	Zones    []Zone
	Schedule WeeklySchedule
	Timezone *time.Location
	Location *Location
}

func NewBookableResource(p Params) (*BookableResource, error) {
	if _, err := NewKind(p.Kind.String()); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if len(p.Zones) == 0 {
		return nil, ErrNoZones
	}
	seen := make(map[booking.ZoneCode]struct{}, len(p.Zones))
	for _, z := range p.Zones {
		if _, dup := seen[z.code]; dup {
			return nil, ErrDuplicateZone
		}
		seen[z.code] = struct{}{}
	}
	tz := p.Timezone
	if tz == nil {
		tz = time.UTC
	}
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &BookableResource{
		id:       id,
		kind:     p.Kind,
		ownerID:  p.OwnerID,
		name:     name,
		zones:    append([]Zone(nil), p.Zones...),
		schedule: p.Schedule,
		timezone: tz,
		location: p.Location,
	}, nil
}

func (r *BookableResource) Zone(code booking.ZoneCode) (Zone, bool) {
	for _, z := range r.zones {
		if z.code == code {
			return z, true
		}
	}
	return Zone{}, false
}

// ResolveSlot checks that the zone exists and the numeral lies within its capacity.
func (r *BookableResource) ResolveSlot(code booking.ZoneCode, numeral int) (booking.SlotID, Zone, error) {
	zone, ok := r.Zone(code)
	if !ok {
		return booking.SlotID{}, Zone{}, ErrZoneNotFound
	}
	if numeral < 1 || numeral > zone.capacity {
		return booking.SlotID{}, Zone{}, ErrNumeralOutOfZone
	}
	slot, err := booking.NewSlotID(code, numeral)
	if err != nil {
		return booking.SlotID{}, Zone{}, err
	}
	return slot, zone, nil
}

func (r *BookableResource) IsOpenAt(t time.Time) bool {
	return r.schedule.IsOpenAt(t, r.timezone)
}

func (r *BookableResource) TotalCapacity() int {
	total := 0
	for _, z := range r.zones {
		total += z.capacity
	}
	return total
}

func (r *BookableResource) ID() uuid.UUID            { return r.id }
func (r *BookableResource) Kind() Kind               { return r.kind }
func (r *BookableResource) OwnerID() uuid.UUID       { return r.ownerID }
func (r *BookableResource) Name() string             { return r.name }
func (r *BookableResource) Zones() []Zone            { return r.zones }
func (r *BookableResource) Schedule() WeeklySchedule { return r.schedule }
func (r *BookableResource) Timezone() *time.Location { return r.timezone }
func (r *BookableResource) Location() *Location      { return r.location }
