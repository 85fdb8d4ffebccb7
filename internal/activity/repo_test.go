//go:build integration_test || all_tests

package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/2beens/tcxvis/internal/activity"
	"github.com/2beens/tcxvis/internal/db"
	"github.com/2beens/tcxvis/internal/series"
	"github.com/2beens/tcxvis/internal/testinternals"
)

type RepoTestSuite struct {
	suite.Suite

	containers *testinternals.Containers
	repo       *activity.Repo
	closeDB    func()
}

func TestRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RepoTestSuite))
}

func (s *RepoTestSuite) SetupSuite() {
	containers, err := testinternals.StartContainers(false)
	s.Require().NoError(err)
	s.containers = containers

	dbPool, err := db.NewDBPool(context.Background(), db.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     containers.PostgresPort,
		DBName:     testinternals.PostgresDBName,
		DBUser:     testinternals.PostgresUser,
		DBPassword: testinternals.PostgresPassword,
	})
	s.Require().NoError(err)
	s.closeDB = dbPool.Close
	s.repo = activity.NewRepo(dbPool)
}

func (s *RepoTestSuite) TearDownSuite() {
	if s.closeDB != nil {
		s.closeDB()
	}
	if s.containers != nil {
		s.containers.Cleanup()
	}
}

func activityIDs[T any](items []T, id func(T) int) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, id(item))
	}
	return ids
}

func (s *RepoTestSuite) TestList() {
	activities, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Equal([]int{5, 4, 3, 2, 1}, activityIDs(activities, func(a activity.Activity) int { return a.ID }))

	s.Equal("garbage - Other", activities[0].DisplayName())
	s.Equal("2024-05-20 06:00 - Unknown Sport", activities[2].DisplayName())
	s.Equal("2024-05-03 07:00 - Running (easy run)", activities[4].DisplayName())
}

func (s *RepoTestSuite) TestGet() {
	a, err := s.repo.Get(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal("Running", a.Sport)
	s.Equal("easy run", a.Notes)
	s.Require().NotNil(a.DistanceMeters)
	s.Equal(float64(2000), *a.DistanceMeters)
	s.Require().NotNil(a.AverageHeartRateBpm)
	s.Equal(124, *a.AverageHeartRateBpm)
	s.Equal("2.00 km", a.Details()["Distance"])

	a, err = s.repo.Get(context.Background(), 2)
	s.Require().NoError(err)
	s.Nil(a.Calories)
	s.Empty(a.Notes)

	_, err = s.repo.Get(context.Background(), 99)
	s.ErrorIs(err, activity.ErrActivityNotFound)
}

func (s *RepoTestSuite) TestSamples() {
	rows, err := s.repo.Samples(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(rows, 4)
	s.Equal(float64(0), *rows[0].SpeedKph)
	s.Nil(rows[2].Gradient)
	s.Nil(rows[3].HeartRateBpm)
	s.True(rows[1].Time.Before(rows[2].Time))

	extracted, err := series.Extract(rows, series.LabelUnitMinutes)
	s.Require().NoError(err)
	s.Equal([]float64{0, 1, 2}, extracted.Labels)
	s.Equal([]float64{10, 11, 12}, extracted.Speed)
	s.Equal([]float64{1, 0, 2}, extracted.Incline)
	s.Equal([]float64{120, 125, 0}, extracted.HeartRate)

	rows, err = s.repo.Samples(context.Background(), 3)
	s.Require().NoError(err)
	_, err = series.Extract(rows, series.LabelUnitMinutes)
	s.ErrorIs(err, series.ErrEmptySeries)

	rows, err = s.repo.Samples(context.Background(), 99)
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *RepoTestSuite) TestMonth() {
	may, err := s.repo.Month(context.Background(), 2024, time.May)
	s.Require().NoError(err)
	s.Equal([]int{1, 2, 3}, activityIDs(may, func(a series.ActivityRows) int { return a.ID }))
	s.Len(may[0].Rows, 4)
	s.Len(may[1].Rows, 2)

	agg := series.Aggregate(may)
	s.Len(agg.Activities, 1)
	s.Len(agg.Activities["2024-05-03"], 2)
	s.Equal(series.Bounds{Speed: 5, Incline: 0}, agg.MinValues)
	s.Equal(series.Bounds{Speed: 12, Incline: 2}, agg.MaxValues)

	june, err := s.repo.Month(context.Background(), 2024, time.June)
	s.Require().NoError(err)
	s.Equal([]int{4}, activityIDs(june, func(a series.ActivityRows) int { return a.ID }))

	empty, err := s.repo.Month(context.Background(), 2023, time.January)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *RepoTestSuite) TestProgressActivities() {
	activities, err := s.repo.ProgressActivities(context.Background())
	s.Require().NoError(err)
	// unparsable start time left out
	s.Equal([]int{1, 2, 3, 4}, activityIDs(activities, func(a series.ProgressActivity) int { return a.ID }))
	s.Equal(float64(2), activities[0].DistanceKm)
	s.Equal(float64(10), activities[0].DurationMin)
	s.Zero(activities[2].DistanceKm)

	progress := series.BuildProgress(activities)
	s.Equal([]string{"2024-05-03", "2024-05-03", "2024-06-01"}, progress.Labels)
	s.Equal([]float64{11, 5.5, 9}, progress.AvgSpeed)
}
