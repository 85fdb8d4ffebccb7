package series

import "time"

// ProgressActivity is one activity as input for the training progress chart.
type ProgressActivity struct {
	ID          int
	StartTime   time.Time
	Sport       string
	Notes       string
	DistanceKm  float64
	DurationMin float64
	Rows        []Sample
}

type ProgressInfo struct {
	ID       int     `json:"tcxid"`
	Notes    string  `json:"notes"`
	Sport    string  `json:"sport"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// Progress has one point per activity, index-aligned across all slices.
type Progress struct {
	Labels       []string       `json:"labels"`
	AvgSpeed     []float64      `json:"avg_speed"`
	AvgIncline   []float64      `json:"avg_incline"`
	AvgHeartRate []float64      `json:"avg_heartrate"`
	ActivityInfo []ProgressInfo `json:"activity_info"`
}

// BuildProgress averages every activity's valid samples. Average heart rate
// only counts non-zero readings. Activities without valid samples are skipped.
func BuildProgress(activities []ProgressActivity) *Progress {
	p := &Progress{
		Labels:       []string{},
		AvgSpeed:     []float64{},
		AvgIncline:   []float64{},
		AvgHeartRate: []float64{},
		ActivityInfo: []ProgressInfo{},
	}

	for _, a := range activities {
		s, err := ExtractFields(a.Rows, LabelUnitMinutes, FieldSpeed|FieldIncline|FieldHeartRate)
		if err != nil {
			continue
		}

		p.Labels = append(p.Labels, a.StartTime.Format(DayKeyLayout))
		p.AvgSpeed = append(p.AvgSpeed, round2(mean(s.Speed, false)))
		p.AvgIncline = append(p.AvgIncline, round2(mean(s.Incline, false)))
		p.AvgHeartRate = append(p.AvgHeartRate, round2(mean(s.HeartRate, true)))
		p.ActivityInfo = append(p.ActivityInfo, ProgressInfo{
			ID:       a.ID,
			Notes:    a.Notes,
			Sport:    a.Sport,
			Distance: round2(a.DistanceKm),
			Duration: round2(a.DurationMin),
		})
	}

	return p
}

func mean(values []float64, skipZero bool) float64 {
	var sum float64
	var count int
	for _, v := range values {
		if skipZero && v == 0 {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
