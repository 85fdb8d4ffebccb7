package series

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrEmptySeries      = errors.New("no valid samples")
	ErrInvalidLabelUnit = errors.New("invalid label unit")
)

// Sample is a single telemetry row, as stored in speeds_dists.
// Nil pointers represent NULL columns.
type Sample struct {
	Time         time.Time
	SpeedKph     *float64
	Gradient     *float64
	HeartRateBpm *float64
}

// Valid reports whether the sample carries a positive speed reading.
// Rows without one are sensor dropouts or idle periods.
func (s Sample) Valid() bool {
	return s.SpeedKph != nil && *s.SpeedKph > 0
}

type LabelUnit string

const (
	LabelUnitMinutes LabelUnit = "minutes"
	LabelUnitSeconds LabelUnit = "seconds"
)

func ParseLabelUnit(s string) (LabelUnit, error) {
	switch LabelUnit(strings.ToLower(strings.TrimSpace(s))) {
	case "", LabelUnitMinutes:
		return LabelUnitMinutes, nil
	case LabelUnitSeconds:
		return LabelUnitSeconds, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLabelUnit, s)
	}
}

// label converts the offset from the first accepted sample into the
// requested unit: minutes rounded to 2 decimals, or whole seconds.
func (u LabelUnit) label(elapsed time.Duration) float64 {
	if u == LabelUnitSeconds {
		return math.Trunc(elapsed.Seconds())
	}
	return round2(elapsed.Minutes())
}

// Fields selects which sequences the extractor fills.
type Fields uint8

const (
	FieldLabels Fields = 1 << iota
	FieldSpeed
	FieldIncline
	FieldHeartRate

	AllFields = FieldLabels | FieldSpeed | FieldIncline | FieldHeartRate
)

// Series holds index-aligned sequences for one activity.
type Series struct {
	Labels    []float64 `json:"labels"`
	Speed     []float64 `json:"speed"`
	Incline   []float64 `json:"incline"`
	HeartRate []float64 `json:"heart_rate"`
}

func (s *Series) Len() int {
	return max(len(s.Labels), len(s.Speed), len(s.Incline), len(s.HeartRate))
}

// Extract builds the full series (labels, speed, incline, heart rate) out of
// time-ordered rows. It returns ErrEmptySeries if no row has a positive speed.
func Extract(rows []Sample, unit LabelUnit) (*Series, error) {
	return ExtractFields(rows, unit, AllFields)
}

// ExtractFields is Extract limited to the requested sequences; sequences not
// asked for are left nil. Rows must already be sorted by time.
func ExtractFields(rows []Sample, unit LabelUnit, fields Fields) (*Series, error) {
	accepted := 0
	for _, row := range rows {
		if row.Valid() {
			accepted++
		}
	}
	if accepted == 0 {
		return nil, ErrEmptySeries
	}

	s := &Series{}
	if fields&FieldLabels != 0 {
		s.Labels = make([]float64, 0, accepted)
	}
	if fields&FieldSpeed != 0 {
		s.Speed = make([]float64, 0, accepted)
	}
	if fields&FieldIncline != 0 {
		s.Incline = make([]float64, 0, accepted)
	}
	if fields&FieldHeartRate != 0 {
		s.HeartRate = make([]float64, 0, accepted)
	}

	var t0 time.Time
	first := true
	for _, row := range rows {
		if !row.Valid() {
			continue
		}
		if first {
			t0 = row.Time
			first = false
		}

		if s.Labels != nil {
			s.Labels = append(s.Labels, unit.label(row.Time.Sub(t0)))
		}
		if s.Speed != nil {
			s.Speed = append(s.Speed, *row.SpeedKph)
		}
		if s.Incline != nil {
			s.Incline = append(s.Incline, valueOrZero(row.Gradient))
		}
		if s.HeartRate != nil {
			s.HeartRate = append(s.HeartRate, valueOrZero(row.HeartRateBpm))
		}
	}

	return s, nil
}

// valueOrZero substitutes 0 for a missing (nil or NaN) reading.
func valueOrZero(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

// round2 rounds to 2 decimal places, exact halves to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
