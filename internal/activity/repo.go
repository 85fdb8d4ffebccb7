package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/tcxvis/internal/series"
	"github.com/2beens/tcxvis/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrActivityNotFound = errors.New("activity not found")

const activityColumns = `
	a.tcxid, COALESCE(a.activityid, ''), COALESCE(a.sport, ''), COALESCE(a.notes, ''),
	COALESCE(CAST(a.lapstarttime AS TEXT), ''), a.totaltimeseconds, a.distancemeters, a.maximumspeed,
	a.calories, a.averageheartratebpm, a.maximumheartratebpm, COALESCE(a.intensity, '')`

// Repo reads activities and their telemetry samples. The tables are filled
// by the external TCX importer; nothing here writes.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+activityColumns+`
			FROM activity a
			ORDER BY CAST(a.lapstarttime AS TEXT) DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	activities, err := rows2activities(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2activities: %w", err)
	}
	span.SetAttributes(attribute.Int("activities.count", len(activities)))

	return activities, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tcxid", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+activityColumns+`
			FROM activity a
			WHERE a.tcxid = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	activities, err := rows2activities(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2activities: %w", err)
	}

	if len(activities) != 1 {
		return nil, ErrActivityNotFound
	}

	return &activities[0], nil
}

// Samples returns all telemetry rows of the activity ordered by time,
// including the ones without a usable speed.
func (r *Repo) Samples(ctx context.Context, id int) (_ []series.Sample, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.samples")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tcxid", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT s.time, s.speed_kph, s.gradient, s.avg_heartrate_bpm
			FROM speeds_dists s
			WHERE s.tcxid = $1
			ORDER BY s.time;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var samples []series.Sample
	for rows.Next() {
		var s series.Sample
		if err := rows.Scan(&s.Time, &s.SpeedKph, &s.Gradient, &s.HeartRateBpm); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	span.SetAttributes(attribute.Int("samples.count", len(samples)))

	return samples, nil
}

// Month returns the activities started within the given calendar month,
// chronologically, each with its time ordered samples.
func (r *Repo) Month(ctx context.Context, year int, month time.Month) (_ []series.ActivityRows, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.month")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))
	span.SetAttributes(attribute.Int("month", int(month)))

	withRows, err := r.activitiesWithSamples(
		ctx,
		`WHERE CAST(a.lapstarttime AS TEXT) LIKE $1`,
		fmt.Sprintf("%04d-%02d%%", year, int(month)),
	)
	if err != nil {
		return nil, err
	}

	monthActivities := make([]series.ActivityRows, 0, len(withRows))
	for _, a := range withRows {
		monthActivities = append(monthActivities, series.ActivityRows{
			ID:        a.ID,
			StartTime: a.start,
			Notes:     a.Notes,
			Rows:      a.rows,
		})
	}
	span.SetAttributes(attribute.Int("activities.count", len(monthActivities)))

	return monthActivities, nil
}

// ProgressActivities returns every activity chronologically, with samples
// and lap totals.
func (r *Repo) ProgressActivities(ctx context.Context) (_ []series.ProgressActivity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.activity.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	withRows, err := r.activitiesWithSamples(ctx, "")
	if err != nil {
		return nil, err
	}

	progressActivities := make([]series.ProgressActivity, 0, len(withRows))
	for _, a := range withRows {
		pa := series.ProgressActivity{
			ID:        a.ID,
			StartTime: a.start,
			Sport:     a.Sport,
			Notes:     a.Notes,
			Rows:      a.rows,
		}
		if a.DistanceMeters != nil {
			pa.DistanceKm = *a.DistanceMeters / 1000
		}
		if a.TotalTimeSeconds != nil {
			pa.DurationMin = *a.TotalTimeSeconds / 60
		}
		progressActivities = append(progressActivities, pa)
	}
	span.SetAttributes(attribute.Int("activities.count", len(progressActivities)))

	return progressActivities, nil
}

type activityWithSamples struct {
	Activity
	start time.Time
	rows  []series.Sample
}

// activitiesWithSamples joins activities with their samples in one query and
// groups the result by activity, keeping the chronological order.
func (r *Repo) activitiesWithSamples(ctx context.Context, where string, args ...any) ([]*activityWithSamples, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+activityColumns+`, s.time, s.speed_kph, s.gradient, s.avg_heartrate_bpm
			FROM activity a
			LEFT JOIN speeds_dists s ON s.tcxid = a.tcxid
			`+where+`
			ORDER BY CAST(a.lapstarttime AS TEXT), a.tcxid, s.time;`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var activities []*activityWithSamples
	var current *activityWithSamples
	lastID := -1
	for rows.Next() {
		var a Activity
		var sampleTime *time.Time
		var s series.Sample
		if err := rows.Scan(
			&a.ID, &a.ActivityID, &a.Sport, &a.Notes,
			&a.LapStartTime, &a.TotalTimeSeconds, &a.DistanceMeters, &a.MaximumSpeed,
			&a.Calories, &a.AverageHeartRateBpm, &a.MaximumHeartRateBpm, &a.Intensity,
			&sampleTime, &s.SpeedKph, &s.Gradient, &s.HeartRateBpm,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		if a.ID != lastID {
			lastID = a.ID
			current = nil
			if start, ok := a.StartTime(); ok {
				current = &activityWithSamples{Activity: a, start: start}
				activities = append(activities, current)
			} else {
				log.Debugf("activity [%d]: unparsable start time [%s], skipping", a.ID, a.LapStartTime)
			}
		}

		// LEFT JOIN: an activity without any samples yields a single null row
		if current == nil || sampleTime == nil {
			continue
		}
		s.Time = *sampleTime
		current.rows = append(current.rows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return activities, nil
}

func rows2activities(rows pgx.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(
			&a.ID, &a.ActivityID, &a.Sport, &a.Notes,
			&a.LapStartTime, &a.TotalTimeSeconds, &a.DistanceMeters, &a.MaximumSpeed,
			&a.Calories, &a.AverageHeartRateBpm, &a.MaximumHeartRateBpm, &a.Intensity,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}
