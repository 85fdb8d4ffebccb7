package series

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var ErrInvalidWindow = errors.New("invalid smoothing window")

// ParseWindow validates a smoothing window coming from a request.
// An empty value means no smoothing. Zero and negative windows are valid
// and result in no smoothing; only non-integers are rejected.
func ParseWindow(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	window, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	return window, nil
}

// Smooth applies a centered moving average of exactly window samples.
// Near the end of the sequence the window is shifted back so it stays full.
// NaN and 0 values are treated as missing and excluded from each mean; a
// window with nothing left averages to 0.
//
// If window <= 1 or the sequence is shorter than window, a copy of the
// input is returned.
func Smooth(values []float64, window int) []float64 {
	if window <= 1 || len(values) < window {
		return slices.Clone(values)
	}

	smoothed := make([]float64, len(values))
	half := window / 2
	for i := range values {
		start := max(i-half, 0)
		end := min(start+window, len(values))
		if end-start < window {
			start = max(end-window, 0)
		}

		var sum float64
		var count int
		for _, v := range values[start:end] {
			if v == 0 || math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count > 0 {
			smoothed[i] = sum / float64(count)
		}
	}

	return smoothed
}

// SmoothSeries smooths speed, incline and heart rate independently.
// Labels are never smoothed.
func SmoothSeries(s *Series, window int) *Series {
	return &Series{
		Labels:    slices.Clone(s.Labels),
		Speed:     Smooth(s.Speed, window),
		Incline:   Smooth(s.Incline, window),
		HeartRate: Smooth(s.HeartRate, window),
	}
}
