package activity

import (
	"fmt"
	"time"
)

const (
	displayTimeLayout  = "2006-01-02 15:04"
	notesDisplayMaxLen = 30
)

// Activity is one recorded lap summary from the activity table.
type Activity struct {
	ID                  int
	ActivityID          string
	Sport               string
	Notes               string
	LapStartTime        string
	TotalTimeSeconds    *float64
	DistanceMeters      *float64
	MaximumSpeed        *float64
	Calories            *int
	AverageHeartRateBpm *int
	MaximumHeartRateBpm *int
	Intensity           string
}

type ListItem struct {
	ID          int    `json:"tcxid"`
	DisplayName string `json:"display_name"`
}

type DetailsResponse map[string]string

// StartTime parses the stored lap start time, an ISO 8601 string.
func (a *Activity) StartTime() (time.Time, bool) {
	return parseStartTime(a.LapStartTime)
}

func parseStartTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayName is the text shown in the activity selector, e.g.
// "2024-05-03 07:15 - Running (easy recovery)".
func (a *Activity) DisplayName() string {
	formattedTime := "Unknown Date"
	if a.LapStartTime != "" {
		if t, ok := a.StartTime(); ok {
			formattedTime = t.Format(displayTimeLayout)
		} else {
			formattedTime = truncate(a.LapStartTime, len(displayTimeLayout))
		}
	}

	sport := a.Sport
	if sport == "" {
		sport = "Unknown Sport"
	}

	displayName := fmt.Sprintf("%s - %s", formattedTime, sport)
	if a.Notes != "" {
		notes := a.Notes
		if len([]rune(notes)) > notesDisplayMaxLen {
			notes = truncate(notes, notesDisplayMaxLen) + "..."
		}
		displayName += fmt.Sprintf(" (%s)", notes)
	}

	return displayName
}

func (a *Activity) ListItem() ListItem {
	return ListItem{ID: a.ID, DisplayName: a.DisplayName()}
}

// Details returns the formatted summary table; empty values are left out.
func (a *Activity) Details() DetailsResponse {
	details := DetailsResponse{}
	set := func(key, value string) {
		if value != "" {
			details[key] = value
		}
	}

	set("Sport", a.Sport)
	if a.TotalTimeSeconds != nil {
		set("Total Time", formatDuration(*a.TotalTimeSeconds))
	}
	if a.DistanceMeters != nil {
		set("Distance", fmt.Sprintf("%.2f km", *a.DistanceMeters/1000))
	}
	if a.MaximumSpeed != nil {
		set("Maximum Speed", fmt.Sprintf("%.2f km/h", *a.MaximumSpeed))
	}
	if a.AverageHeartRateBpm != nil {
		set("Average Heart Rate", fmt.Sprintf("%d bpm", *a.AverageHeartRateBpm))
	}
	if a.MaximumHeartRateBpm != nil {
		set("Maximum Heart Rate", fmt.Sprintf("%d bpm", *a.MaximumHeartRateBpm))
	}
	if a.Calories != nil {
		set("Calories", fmt.Sprintf("%d kcal", *a.Calories))
	}
	if t, ok := a.StartTime(); ok {
		set("Start Time", t.Format("2006-01-02 15:04:05"))
	} else {
		set("Start Time", a.LapStartTime)
	}
	set("Intensity", a.Intensity)
	set("Notes", a.Notes)

	return details
}

// formatDuration renders seconds as "1h 02m 03s", or "2m 03s" under an hour.
func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes])
}
