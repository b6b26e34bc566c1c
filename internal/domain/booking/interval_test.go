//go:build unit

package booking_test

import (
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func span(t *testing.T, fromMin, toMin int) booking.Interval {
	t.Helper()
	iv, err := booking.NewInterval(epoch.Add(time.Duration(fromMin)*time.Minute), epoch.Add(time.Duration(toMin)*time.Minute))
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	t.Run("rejects empty interval", func(t *testing.T) {
		_, err := booking.NewInterval(epoch, epoch)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("rejects reversed interval", func(t *testing.T) {
		_, err := booking.NewInterval(epoch.Add(time.Hour), epoch)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("rejects zero timestamps", func(t *testing.T) {
		_, err := booking.NewInterval(time.Time{}, epoch)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		iv, err := booking.NewInterval(epoch.In(tokyo), epoch.Add(time.Hour).In(tokyo))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, iv.From().Location())
		assert.Equal(t, time.Hour, iv.Duration())
	})
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name     string
		existing [2]int
		cand     [2]int
		expected bool
	}{
		{name: "touching endpoints", existing: [2]int{0, 10}, cand: [2]int{10, 20}, expected: false},
		{name: "partial overlap", existing: [2]int{0, 10}, cand: [2]int{9, 20}, expected: true},
		{name: "containment", existing: [2]int{0, 10}, cand: [2]int{2, 5}, expected: true},
		{name: "identical", existing: [2]int{0, 10}, cand: [2]int{0, 10}, expected: true},
		{name: "candidate before", existing: [2]int{10, 20}, cand: [2]int{0, 10}, expected: false},
		{name: "candidate encloses", existing: [2]int{5, 6}, cand: [2]int{0, 60}, expected: true},
		{name: "disjoint", existing: [2]int{0, 10}, cand: [2]int{30, 40}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := span(t, tc.existing[0], tc.existing[1])
			b := span(t, tc.cand[0], tc.cand[1])
			assert.Equal(t, tc.expected, booking.Overlaps(a, b))
			assert.Equal(t, tc.expected, booking.Overlaps(b, a), "overlap must be symmetric")
		})
	}
}

func TestInterval_ToTstzrange(t *testing.T) {
	iv := span(t, 0, 90)
	assert.Equal(t, "[2025-03-01T00:00:00Z,2025-03-01T01:30:00Z)", iv.ToTstzrange())
}
