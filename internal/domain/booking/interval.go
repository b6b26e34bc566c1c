package booking

import (
	"fmt"
	"time"
)

// Interval is the half-open range [From, To).
type Interval struct {
	from time.Time
	to   time.Time
}

func NewInterval(from, to time.Time) (Interval, error) {
	if from.IsZero() || to.IsZero() {
		return Interval{}, ErrInvalidInterval
	}
	if !from.Before(to) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{from: from.UTC(), to: to.UTC()}, nil
}

// ReconstructInterval skips validation for rows already persisted.
func ReconstructInterval(from, to time.Time) Interval {
	return Interval{from: from.UTC(), to: to.UTC()}
}

func (i Interval) From() time.Time { return i.from }
func (i Interval) To() time.Time   { return i.to }

func (i Interval) Duration() time.Duration {
	return i.to.Sub(i.from)
}

// Overlaps uses the same predicate as the store query; touching endpoints do not conflict.
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

func Overlaps(existing, candidate Interval) bool {
	return existing.from.Before(candidate.to) && existing.to.After(candidate.from)
}

func (i Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", i.from.Format(time.RFC3339Nano), i.to.Format(time.RFC3339Nano))
}

func (i Interval) String() string {
	return i.ToTstzrange()
}
