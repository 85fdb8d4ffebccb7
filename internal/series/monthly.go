package series

import "time"

const DayKeyLayout = "2006-01-02"

var (
	fallbackMin = Bounds{Speed: 0, Incline: 0}
	fallbackMax = Bounds{Speed: 10, Incline: 10}
)

// ActivityRows is one activity of a month, with its time-ordered samples.
type ActivityRows struct {
	ID        int
	StartTime time.Time
	Notes     string
	Rows      []Sample
}

// ActivitySummary is the unsmoothed, full resolution speed and incline
// of one activity, as drawn in the calendar view.
type ActivitySummary struct {
	ID      int       `json:"tcxid"`
	Notes   string    `json:"notes"`
	Speed   []float64 `json:"speed"`
	Incline []float64 `json:"incline"`
}

type Bounds struct {
	Speed   float64 `json:"speed"`
	Incline float64 `json:"incline"`
}

// MonthlyAggregate groups a month of activities per calendar day.
// MinValues and MaxValues span every sample of every activity in the month,
// so all the day charts can share one Y axis.
type MonthlyAggregate struct {
	Activities map[string][]ActivitySummary `json:"activities"`
	MinValues  Bounds                       `json:"min_values"`
	MaxValues  Bounds                       `json:"max_values"`
}

// Aggregate builds the monthly aggregate. Activities are expected in
// chronological order and keep that order within a day. Activities without
// a single valid sample are left out, even if that empties their day.
func Aggregate(activities []ActivityRows) *MonthlyAggregate {
	agg := &MonthlyAggregate{
		Activities: make(map[string][]ActivitySummary),
		MinValues:  fallbackMin,
		MaxValues:  fallbackMax,
	}

	var minB, maxB Bounds
	found := false
	for _, a := range activities {
		s, err := ExtractFields(a.Rows, LabelUnitMinutes, FieldSpeed|FieldIncline)
		if err != nil {
			// ErrEmptySeries: nothing to draw for this activity
			continue
		}

		if !found {
			minB = Bounds{Speed: s.Speed[0], Incline: s.Incline[0]}
			maxB = minB
			found = true
		}
		for i := range s.Speed {
			minB.Speed = min(minB.Speed, s.Speed[i])
			maxB.Speed = max(maxB.Speed, s.Speed[i])
			minB.Incline = min(minB.Incline, s.Incline[i])
			maxB.Incline = max(maxB.Incline, s.Incline[i])
		}

		day := a.StartTime.Format(DayKeyLayout)
		agg.Activities[day] = append(agg.Activities[day], ActivitySummary{
			ID:      a.ID,
			Notes:   a.Notes,
			Speed:   s.Speed,
			Incline: s.Incline,
		})
	}

	if found {
		agg.MinValues = minB
		agg.MaxValues = maxB
	}

	return agg
}
