package codec

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/pkg/errors"
)

const (
	FrameSize = 16
	frameBits = FrameSize * 8

	temperatureWidth uint = 10
	humidityWidth    uint = 10
	lightWidth       uint = 16
)

type field struct {
	name  string
	width uint
}

// layout is the on-wire order, most significant bit first.
var layout = []field{
	{"id", 5},
	{"repeat_days", 5},
	{"start_in_minutes", 11},
	{"end_in_minutes", 11},
	{"start_date", 16},
	{"relay_index", 3},
	{"relay_value", 1},
	{"reverse_on_false", 1},
	{"logic", 3},
	{"temp_min", temperatureWidth},
	{"temp_max", temperatureWidth},
	{"hum_min", humidityWidth},
	{"hum_max", humidityWidth},
	{"light_min", lightWidth},
	{"light_max", lightWidth},
}

func layoutBits() uint {
	var total uint
	for _, f := range layout {
		total += f.width
	}
	return total
}

// Encode validates rule and packs it into a 16 byte frame.
func Encode(rule entities.Rule) ([]byte, error) {
	days, err := validate(rule)
	if err != nil {
		return nil, err
	}

	values := []uint64{
		uint64(rule.ID),
		uint64(rule.RepeatDays),
		uint64(rule.StartInMinutes),
		uint64(rule.EndInMinutes),
		uint64(days),
		uint64(rule.RelayIndex),
		boolBit(rule.RelayValue),
		boolBit(rule.ReverseOnFalse),
		uint64(rule.Logic),
		uint64(temperatureRaw(rule.TempMin)),
		uint64(temperatureRaw(rule.TempMax)),
		uint64(humidityRaw(rule.HumMin)),
		uint64(humidityRaw(rule.HumMax)),
		uint64(lightRaw(rule.LightMin)),
		uint64(lightRaw(rule.LightMax)),
	}
	if len(values) != len(layout) || layoutBits() != frameBits {
		return nil, errors.Wrapf(ErrFrameLayout, "%d fields, %d bits", len(values), layoutBits())
	}

	stream := newBitstream()
	for i, f := range layout {
		stream.write(values[i], f.width)
	}
	if stream.pos != frameBits {
		return nil, errors.Wrapf(ErrFrameLayout, "wrote %d bits", stream.pos)
	}
	return stream.bytes(), nil
}

// Decode unpacks a 16 byte frame. Humidity comes back divided by ten, the
// encoder does not scale it.
func Decode(frame []byte) (entities.Rule, error) {
	if len(frame) != FrameSize {
		return entities.Rule{}, errors.Wrapf(ErrFrameSize, "got %d bytes, want %d", len(frame), FrameSize)
	}

	stream := bitstreamFromBytes(frame)
	raw := make(map[string]uint64, len(layout))
	for _, f := range layout {
		raw[f.name] = stream.read(f.width)
	}

	return entities.Rule{
		ID:             int(raw["id"]),
		RepeatDays:     int(raw["repeat_days"]),
		StartInMinutes: int(raw["start_in_minutes"]),
		EndInMinutes:   int(raw["end_in_minutes"]),
		StartDate:      FromDayCount(int(raw["start_date"])),
		RelayIndex:     int(raw["relay_index"]),
		RelayValue:     raw["relay_value"] == 1,
		ReverseOnFalse: raw["reverse_on_false"] == 1,
		Logic:          int(raw["logic"]),
		TempMin:        temperatureValue(raw["temp_min"]),
		TempMax:        temperatureValue(raw["temp_max"]),
		HumMin:         float64(raw["hum_min"]) / 10.0,
		HumMax:         float64(raw["hum_max"]) / 10.0,
		LightMin:       int(raw["light_min"]),
		LightMax:       int(raw["light_max"]),
	}, nil
}

func temperatureValue(raw uint64) float64 {
	return float64(int64(raw)-tempOffset) / tempScale
}

func boolBit(value bool) uint64 {
	if value {
		return 1
	}
	return 0
}

// bitstream addresses bit 0 as the most significant bit of byte 0.
type bitstream struct {
	bits *bitset.BitSet
	pos  uint
}

func newBitstream() *bitstream {
	return &bitstream{bits: bitset.New(frameBits)}
}

func bitstreamFromBytes(frame []byte) *bitstream {
	stream := newBitstream()
	for i, b := range frame {
		for k := uint(0); k < 8; k++ {
			if b&(0x80>>k) != 0 {
				stream.bits.Set(uint(i)*8 + k)
			}
		}
	}
	return stream
}

func (s *bitstream) write(value uint64, width uint) {
	for i := width; i > 0; i-- {
		if value>>(i-1)&1 == 1 {
			s.bits.Set(s.pos)
		}
		s.pos++
	}
}

func (s *bitstream) read(width uint) uint64 {
	var value uint64
	for i := uint(0); i < width; i++ {
		value <<= 1
		if s.bits.Test(s.pos) {
			value |= 1
		}
		s.pos++
	}
	return value
}

func (s *bitstream) bytes() []byte {
	frame := make([]byte, FrameSize)
	for pos := uint(0); pos < frameBits; pos++ {
		if s.bits.Test(pos) {
			frame[pos/8] |= 0x80 >> (pos % 8)
		}
	}
	return frame
}
