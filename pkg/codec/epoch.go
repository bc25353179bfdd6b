package codec

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout   = "2006-01-02"
	secondsInDay = 24 * 60 * 60
)

// Epoch is the reference date of the 16 bit start_date field.
var Epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToDayCount returns the signed number of days between date and Epoch.
func ToDayCount(date string) (int, error) {
	parsed, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidDate, "parse %q", date)
	}
	return int((parsed.Unix() - Epoch.Unix()) / secondsInDay), nil
}

// FromDayCount converts a day count back to a YYYY-MM-DD date.
func FromDayCount(days int) string {
	return Epoch.AddDate(0, 0, days).Format(DateLayout)
}
