package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrEncoding    = errors.New("rule encoding failed")
	ErrFrameSize   = errors.New("invalid frame size")
	ErrFrameLayout = errors.New("frame layout does not add up to 128 bits")
)

// EncodingError reports the first rule field that cannot be packed.
type EncodingError struct {
	Field  string
	Value  interface{}
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode %s=%v: %s: %v", e.Field, e.Value, e.Reason, e.Err)
	}
	return fmt.Sprintf("encode %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func outOfRange(field string, value interface{}, min, max int) *EncodingError {
	return &EncodingError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf("out of range [%d, %d]", min, max),
	}
}
