package codec

import (
	"math"
	"testing"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertEncodingError(t *testing.T, rule entities.Rule, field string) {
	t.Helper()
	err := Validate(rule)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))
	var encodingErr *EncodingError
	require.True(t, errors.As(err, &encodingErr))
	assert.Equal(t, field, encodingErr.Field)
}

func TestValidateAcceptsScenarioRule(t *testing.T) {
	assert.NoError(t, Validate(createRule()))
}

func TestValidateIDBoundary(t *testing.T) {
	rule := createRule()
	rule.ID = 31
	assert.NoError(t, Validate(rule))
	rule.ID = 32
	assertEncodingError(t, rule, "id")
	rule.ID = -1
	assertEncodingError(t, rule, "id")
}

func TestValidateMinutesBoundary(t *testing.T) {
	rule := createRule()
	rule.StartInMinutes = 1439
	assert.NoError(t, Validate(rule))
	rule.StartInMinutes = 1440
	assertEncodingError(t, rule, "start_in_minutes")

	rule = createRule()
	rule.EndInMinutes = 1440
	assertEncodingError(t, rule, "end_in_minutes")
}

func TestValidateRepeatDays(t *testing.T) {
	rule := createRule()
	rule.RepeatDays = 32
	assertEncodingError(t, rule, "repeat_days")
}

func TestValidateRelayIndexAndLogic(t *testing.T) {
	rule := createRule()
	rule.RelayIndex = 8
	assertEncodingError(t, rule, "relay_index")

	rule = createRule()
	rule.Logic = 8
	assertEncodingError(t, rule, "logic")
}

func TestValidateUnparseableDate(t *testing.T) {
	rule := createRule()
	rule.StartDate = "2025/06/01"
	assertEncodingError(t, rule, "start_date")
	assert.True(t, errors.Is(Validate(rule), ErrInvalidDate))
}

func TestValidateDateRange(t *testing.T) {
	rule := createRule()
	rule.StartDate = "2024-12-31"
	assertEncodingError(t, rule, "start_date")

	rule.StartDate = FromDayCount(MaxDayCount)
	assert.NoError(t, Validate(rule))

	rule.StartDate = FromDayCount(MaxDayCount + 1)
	assertEncodingError(t, rule, "start_date")
}

func TestValidateNonFiniteSensorValues(t *testing.T) {
	rule := createRule()
	rule.TempMin = math.NaN()
	assertEncodingError(t, rule, "temp_min")

	rule = createRule()
	rule.HumMax = math.Inf(1)
	assertEncodingError(t, rule, "hum_max")
}
