package codec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDayCountAtEpoch(t *testing.T) {
	days, err := ToDayCount("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, days)
}

func TestFromDayCountAtEpoch(t *testing.T) {
	assert.Equal(t, "2025-01-01", FromDayCount(0))
}

func TestToDayCountBeforeEpochIsNegative(t *testing.T) {
	days, err := ToDayCount("2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, -1, days)
}

func TestToDayCountAcrossLeapYear(t *testing.T) {
	days, err := ToDayCount("2029-01-01")
	require.NoError(t, err)
	assert.Equal(t, 365*4+1, days)
}

func TestToDayCountWhenUnparseableReturnInvalidDate(t *testing.T) {
	for _, date := range []string{"", "2025-13-01", "2025-02-30", "01/06/2025", "tomorrow"} {
		_, err := ToDayCount(date)
		assert.True(t, errors.Is(err, ErrInvalidDate), date)
	}
}

func TestDayCountRoundTrip(t *testing.T) {
	for _, date := range []string{"2025-01-01", "2025-06-01", "2028-02-29", "2100-03-01", "2024-07-15", "2204-06-07"} {
		days, err := ToDayCount(date)
		require.NoError(t, err)
		assert.Equal(t, date, FromDayCount(days))
	}
}

func TestFromDayCountUpperBound(t *testing.T) {
	days, err := ToDayCount(FromDayCount(MaxDayCount))
	require.NoError(t, err)
	assert.Equal(t, MaxDayCount, days)
}
