//go:build unit

package errs_test

import (
	"testing"

	"slot-reservation-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	errSlotTaken := errs.NewCategorized(errs.CategoryConflict, "slot taken")
	errGatewayDown := errs.NewCategorized(errs.CategoryGatewayUnavailable, "gateway down")

	testCases := []struct {
		name      string
		err       error
		expected  errs.Category
		retryable bool
	}{
		{name: "nil error", err: nil, expected: errs.CategoryUnknown},
		{name: "plain error", err: errs.New("boom"), expected: errs.CategoryUnknown},
		{name: "categorized sentinel", err: errSlotTaken, expected: errs.CategoryConflict},
		{name: "wrapped sentinel keeps category", err: errs.Wrap(errSlotTaken, "confirm"), expected: errs.CategoryConflict},
		{name: "marked low-level error", err: errs.Mark(errs.New("dial tcp"), errGatewayDown), expected: errs.CategoryGatewayUnavailable, retryable: true},
		{name: "transient store", err: errs.WithCategory(errs.New("deadlock"), errs.CategoryTransientStore), expected: errs.CategoryTransientStore, retryable: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errs.CategoryOf(tc.err))
			assert.Equal(t, tc.retryable, errs.Retryable(tc.err))
		})
	}
}

func TestCategorizedSentinelIdentity(t *testing.T) {
	sentinel := errs.NewCategorized(errs.CategoryValidation, "invalid slot")
	wrapped := errs.Wrap(sentinel, "checkout")

	assert.True(t, errs.Is(wrapped, sentinel))
	assert.False(t, errs.Is(errs.New("slot taken"), sentinel))
}

func TestSentinelsInOneCategoryStayDistinct(t *testing.T) {
	errSlotTaken := errs.NewCategorized(errs.CategoryConflict, "slot taken")
	errAlreadyConfirmed := errs.NewCategorized(errs.CategoryConflict, "already confirmed")

	marked := errs.Mark(errs.New("exclusion violation"), errSlotTaken)

	assert.True(t, errs.Is(marked, errSlotTaken))
	assert.False(t, errs.Is(marked, errAlreadyConfirmed))
	assert.False(t, errs.Is(errAlreadyConfirmed, errSlotTaken))
	assert.Equal(t, errs.CategoryConflict, errs.CategoryOf(marked))
}

func TestCategoryOf_OutermostWins(t *testing.T) {
	errNotFound := errs.NewCategorized(errs.CategoryNotFound, "booking not found")
	err := errs.WithCategory(errs.Wrap(errNotFound, "load"), errs.CategoryTransientStore)

	assert.Equal(t, errs.CategoryTransientStore, errs.CategoryOf(err))
	assert.True(t, errs.Is(err, errNotFound))
}
