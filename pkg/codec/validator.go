package codec

import (
	"math"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
)

const (
	MaxID         = 31
	MaxRepeatDays = 31
	MaxMinutes    = 1439
	MaxRelayIndex = 7
	MaxLogic      = 7
	MaxDayCount   = 65535

	TempLowerBound  = -20.0
	TempUpperBound  = 80.0
	tempScale       = 10
	tempOffset      = 200
	HumLowerBound   = 0.0
	HumUpperBound   = 100.0
	LightLowerBound = 0
	LightUpperBound = 65535
)

type intCheck struct {
	field string
	value int
	max   int
}

// Validate checks every field of rule against its domain and reports the
// first violation as an *EncodingError.
func Validate(rule entities.Rule) error {
	_, err := validate(rule)
	return err
}

// validate returns the start_date day count so the encoder parses it once.
func validate(rule entities.Rule) (int, error) {
	days, err := ToDayCount(rule.StartDate)
	if err != nil {
		return 0, &EncodingError{Field: "start_date", Value: rule.StartDate, Reason: "unparseable date", Err: err}
	}
	if days < 0 || days > MaxDayCount {
		return 0, outOfRange("start_date", rule.StartDate, 0, MaxDayCount)
	}

	checks := []intCheck{
		{"id", rule.ID, MaxID},
		{"repeat_days", rule.RepeatDays, MaxRepeatDays},
		{"start_in_minutes", rule.StartInMinutes, MaxMinutes},
		{"end_in_minutes", rule.EndInMinutes, MaxMinutes},
		{"relay_index", rule.RelayIndex, MaxRelayIndex},
		{"logic", rule.Logic, MaxLogic},
	}
	for _, check := range checks {
		if check.value < 0 || check.value > check.max {
			return 0, outOfRange(check.field, check.value, 0, check.max)
		}
	}

	scaled := []struct {
		field string
		value float64
		raw   func(float64) int64
		width uint
	}{
		{"temp_min", rule.TempMin, temperatureRaw, temperatureWidth},
		{"temp_max", rule.TempMax, temperatureRaw, temperatureWidth},
		{"hum_min", rule.HumMin, humidityRaw, humidityWidth},
		{"hum_max", rule.HumMax, humidityRaw, humidityWidth},
	}
	for _, s := range scaled {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return 0, &EncodingError{Field: s.field, Value: s.value, Reason: "not a finite number"}
		}
		if raw := s.raw(s.value); !fits(raw, s.width) {
			return 0, outOfRange(s.field, raw, 0, int(maxValue(s.width)))
		}
	}
	lights := []struct {
		field string
		value int
	}{
		{"light_min", rule.LightMin},
		{"light_max", rule.LightMax},
	}
	for _, light := range lights {
		if raw := lightRaw(light.value); !fits(raw, lightWidth) {
			return 0, outOfRange(light.field, raw, 0, int(maxValue(lightWidth)))
		}
	}

	return days, nil
}

func clamp(value, lower, upper float64) float64 {
	return math.Max(lower, math.Min(value, upper))
}

// temperatureRaw keeps one decimal and shifts -20.0 to zero. Halves round to
// even.
func temperatureRaw(value float64) int64 {
	return int64(math.RoundToEven(clamp(value, TempLowerBound, TempUpperBound)*tempScale)) + tempOffset
}

// humidityRaw packs the integer part only; decoding divides by ten.
func humidityRaw(value float64) int64 {
	return int64(clamp(value, HumLowerBound, HumUpperBound))
}

func lightRaw(value int) int64 {
	return int64(clamp(float64(value), LightLowerBound, LightUpperBound))
}

func maxValue(width uint) int64 {
	return int64(1)<<width - 1
}

func fits(raw int64, width uint) bool {
	return raw >= 0 && raw <= maxValue(width)
}
