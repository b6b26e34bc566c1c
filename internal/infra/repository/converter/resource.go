package converter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
)

// zoneDoc and windowDoc are the JSONB document shapes of bookable_resources.zones / schedule.
type zoneDoc struct {
	Code            string `json:"code"`
	Capacity        int    `json:"capacity"`
	HourlyRateCents int64  `json:"hourly_rate_cents"`
}

type windowDoc struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

var weekdayKeys = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func ResourceFromRow(row query.BookableResource) (*resource.BookableResource, error) {
	kind, err := resource.NewKind(row.Kind)
	if err != nil {
		return nil, fmt.Errorf("resource %s: %w", row.ID, err)
	}

	zones, err := DecodeZones(row.Zones)
	if err != nil {
		return nil, fmt.Errorf("resource %s zones: %w", row.ID, err)
	}
	schedule, err := DecodeSchedule(row.Schedule)
	if err != nil {
		return nil, fmt.Errorf("resource %s schedule: %w", row.ID, err)
	}

	tz, err := time.LoadLocation(row.Timezone)
	if err != nil {
		return nil, fmt.Errorf("resource %s timezone: %w", row.ID, err)
	}

	var location *resource.Location
	if row.Latitude.Valid && row.Longitude.Valid {
		loc, err := resource.NewLocation(row.Latitude.Float64, row.Longitude.Float64)
		if err != nil {
			return nil, fmt.Errorf("resource %s location: %w", row.ID, err)
		}
		location = &loc
	}

	return resource.NewBookableResource(resource.Params{
		ID:       row.ID,
		Kind:     kind,
		OwnerID:  row.OwnerID,
		Name:     row.Name,
		Zones:    zones,
		Schedule: schedule,
		Timezone: tz,
		Location: location,
	})
}

func ResourceToUpsertParams(r *resource.BookableResource) (query.UpsertResourceParams, error) {
	zones, err := EncodeZones(r.Zones())
	if err != nil {
		return query.UpsertResourceParams{}, err
	}
	schedule, err := EncodeSchedule(r.Schedule())
	if err != nil {
		return query.UpsertResourceParams{}, err
	}

	params := query.UpsertResourceParams{
		ID:       r.ID(),
		Kind:     r.Kind().String(),
		OwnerID:  r.OwnerID(),
		Name:     r.Name(),
		Zones:    zones,
		Schedule: schedule,
		Timezone: r.Timezone().String(),
	}
	if loc := r.Location(); loc != nil {
		lat, lng := loc.Latitude, loc.Longitude
		params.Latitude = pgconv.Float64PtrToPgtype(&lat)
		params.Longitude = pgconv.Float64PtrToPgtype(&lng)
	}
	return params, nil
}

func DecodeZones(raw []byte) ([]resource.Zone, error) {
	var docs []zoneDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	zones := make([]resource.Zone, 0, len(docs))
	for _, d := range docs {
		z, err := resource.NewZone(d.Code, d.Capacity, d.HourlyRateCents)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", d.Code, err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func EncodeZones(zones []resource.Zone) ([]byte, error) {
	docs := make([]zoneDoc, 0, len(zones))
	for _, z := range zones {
		docs = append(docs, zoneDoc{
			Code:            z.Code().String(),
			Capacity:        z.Capacity(),
			HourlyRateCents: z.HourlyRate().Cents(),
		})
	}
	return json.Marshal(docs)
}

func DecodeSchedule(raw []byte) (resource.WeeklySchedule, error) {
	if len(raw) == 0 {
		return resource.NewWeeklySchedule(nil), nil
	}
	var docs map[string][]windowDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return resource.WeeklySchedule{}, err
	}

	days := make(map[time.Weekday][]resource.Window, len(docs))
	for key, windows := range docs {
		day, ok := weekdayKeys[strings.ToLower(key)]
		if !ok {
			return resource.WeeklySchedule{}, fmt.Errorf("unknown weekday %q", key)
		}
		for _, w := range windows {
			open, err := parseClock(w.Open)
			if err != nil {
				return resource.WeeklySchedule{}, err
			}
			closeAt, err := parseClock(w.Close)
			if err != nil {
				return resource.WeeklySchedule{}, err
			}
			window, err := resource.NewWindow(open, closeAt)
			if err != nil {
				return resource.WeeklySchedule{}, err
			}
			days[day] = append(days[day], window)
		}
	}
	return resource.NewWeeklySchedule(days), nil
}

func EncodeSchedule(s resource.WeeklySchedule) ([]byte, error) {
	docs := make(map[string][]windowDoc)
	for day, windows := range s.Days() {
		key := strings.ToLower(day.String())
		for _, w := range windows {
			docs[key] = append(docs[key], windowDoc{
				Open:  formatClock(w.OpenMinute()),
				Close: formatClock(w.CloseMinute()),
			})
		}
	}
	return json.Marshal(docs)
}

// parseClock reads "HH:MM" into minutes after midnight; "24:00" is accepted as a closing time.
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
