package codec

import (
	"testing"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRule() entities.Rule {
	return entities.Rule{
		ID:             1,
		RepeatDays:     1,
		StartInMinutes: 1*60 + 0,
		EndInMinutes:   23*60 + 50,
		StartDate:      "2025-06-01",
		RelayIndex:     1,
		RelayValue:     true,
		ReverseOnFalse: true,
		Logic:          7,
		TempMin:        25,
		TempMax:        35,
		HumMin:         30,
		HumMax:         80,
		LightMin:       20,
		LightMax:       1000,
	}
}

func rawField(t *testing.T, frame []byte, name string) uint64 {
	stream := bitstreamFromBytes(frame)
	for _, f := range layout {
		value := stream.read(f.width)
		if f.name == name {
			return value
		}
	}
	t.Fatalf("unknown field %s", name)
	return 0
}

func TestLayoutAddsUpTo128Bits(t *testing.T) {
	assert.Equal(t, uint(128), layoutBits())
	assert.Len(t, layout, 15)
}

func TestEncodeScenario(t *testing.T) {
	frame, err := Encode(createRule())
	require.NoError(t, err)
	assert.Len(t, frame, FrameSize)
	assert.Equal(t, []byte{8, 65, 229, 150, 0, 151, 63, 112, 162, 96, 120, 80, 0, 20, 3, 232}, frame)

	decoded, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, 25.0, decoded.TempMin)
	assert.Equal(t, 35.0, decoded.TempMax)
	assert.Equal(t, "2025-06-01", decoded.StartDate)
}

func TestRoundTrip(t *testing.T) {
	rule := createRule()
	rule.TempMin = -12.3
	rule.TempMax = 79.9
	rule.ID = 31
	rule.RepeatDays = 0b10101
	rule.RelayValue = false
	rule.LightMax = 65535

	frame, err := Encode(rule)
	require.NoError(t, err)
	decoded, err := Decode(frame)
	require.NoError(t, err)

	assert.Equal(t, rule.ID, decoded.ID)
	assert.Equal(t, rule.RepeatDays, decoded.RepeatDays)
	assert.Equal(t, rule.StartInMinutes, decoded.StartInMinutes)
	assert.Equal(t, rule.EndInMinutes, decoded.EndInMinutes)
	assert.Equal(t, rule.StartDate, decoded.StartDate)
	assert.Equal(t, rule.RelayIndex, decoded.RelayIndex)
	assert.Equal(t, rule.RelayValue, decoded.RelayValue)
	assert.Equal(t, rule.ReverseOnFalse, decoded.ReverseOnFalse)
	assert.Equal(t, rule.Logic, decoded.Logic)
	assert.InDelta(t, rule.TempMin, decoded.TempMin, 0.05)
	assert.InDelta(t, rule.TempMax, decoded.TempMax, 0.05)
	assert.Equal(t, rule.LightMin, decoded.LightMin)
	assert.Equal(t, rule.LightMax, decoded.LightMax)
}

func TestHumidityIsNotScaledOnEncodeButDividedOnDecode(t *testing.T) {
	frame, err := Encode(createRule())
	require.NoError(t, err)
	assert.Equal(t, uint64(30), rawField(t, frame, "hum_min"))
	assert.Equal(t, uint64(80), rawField(t, frame, "hum_max"))

	decoded, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, 3.0, decoded.HumMin)
	assert.Equal(t, 8.0, decoded.HumMax)
}

func TestTemperatureBoundaries(t *testing.T) {
	rule := createRule()
	rule.TempMin = -20.0
	rule.TempMax = 80.0

	frame, err := Encode(rule)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rawField(t, frame, "temp_min"))
	assert.Equal(t, uint64(1000), rawField(t, frame, "temp_max"))
	assert.Equal(t, []byte{8, 65, 229, 150, 0, 151, 63, 0, 62, 128, 120, 80, 0, 20, 3, 232}, frame)
}

func TestOutOfRangeSensorValuesAreClamped(t *testing.T) {
	rule := createRule()
	rule.TempMin = -40
	rule.TempMax = 120
	rule.HumMin = -5
	rule.HumMax = 140
	rule.LightMin = -1
	rule.LightMax = 100000

	frame, err := Encode(rule)
	require.NoError(t, err)
	decoded, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, -20.0, decoded.TempMin)
	assert.Equal(t, 80.0, decoded.TempMax)
	assert.Equal(t, 0.0, decoded.HumMin)
	assert.Equal(t, uint64(100), rawField(t, frame, "hum_max"))
	assert.Equal(t, 0, decoded.LightMin)
	assert.Equal(t, 65535, decoded.LightMax)
}

func TestTemperatureKeepsOneDecimal(t *testing.T) {
	rule := createRule()
	rule.TempMin = 21.44
	rule.TempMax = 21.46

	frame, err := Encode(rule)
	require.NoError(t, err)
	assert.Equal(t, uint64(414), rawField(t, frame, "temp_min"))
	assert.Equal(t, uint64(415), rawField(t, frame, "temp_max"))
}

func TestEncodeAlwaysYields16Bytes(t *testing.T) {
	for id := 0; id <= MaxID; id++ {
		rule := createRule()
		rule.ID = id
		rule.RelayIndex = id % (MaxRelayIndex + 1)
		rule.StartInMinutes = id * 45
		frame, err := Encode(rule)
		require.NoError(t, err)
		assert.Len(t, frame, FrameSize)
	}
}

func TestEncodeWhenFieldOutOfDomainReturnEncodingError(t *testing.T) {
	rule := createRule()
	rule.ID = 32

	frame, err := Encode(rule)
	assert.Nil(t, frame)
	assert.True(t, errors.Is(err, ErrEncoding))
	var encodingErr *EncodingError
	require.True(t, errors.As(err, &encodingErr))
	assert.Equal(t, "id", encodingErr.Field)
}

func TestDecodeWhenWrongSizeReturnFrameSizeError(t *testing.T) {
	for _, size := range []int{0, 15, 17} {
		_, err := Decode(make([]byte, size))
		assert.True(t, errors.Is(err, ErrFrameSize), size)
	}
}

func TestDecodeAllZeroFrame(t *testing.T) {
	decoded, err := Decode(make([]byte, FrameSize))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", decoded.StartDate)
	assert.Equal(t, -20.0, decoded.TempMin)
	assert.False(t, decoded.RelayValue)
}
