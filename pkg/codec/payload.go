package codec

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FrameToPayload renders a frame the way the SetRule command expects it:
// decimal byte values joined by commas.
func FrameToPayload(frame []byte) string {
	values := make([]string, len(frame))
	for i, b := range frame {
		values[i] = strconv.Itoa(int(b))
	}
	return strings.Join(values, ",")
}

// PayloadToFrame parses a SetRule payload back into a frame.
func PayloadToFrame(payload string) ([]byte, error) {
	parts := strings.Split(payload, ",")
	if len(parts) != FrameSize {
		return nil, errors.Wrapf(ErrFrameSize, "got %d values, want %d", len(parts), FrameSize)
	}
	frame := make([]byte, FrameSize)
	for i, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "byte %d", i)
		}
		frame[i] = byte(value)
	}
	return frame, nil
}
