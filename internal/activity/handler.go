package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/tcxvis/internal/cache"
	"github.com/2beens/tcxvis/internal/series"
	"github.com/2beens/tcxvis/internal/telemetry/metrics"
	"github.com/2beens/tcxvis/internal/telemetry/tracing"
	"github.com/2beens/tcxvis/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=activity_mocks_test.go -package=activity_test

const (
	cacheKeyActivities = "activities"
	cacheKeyDetails    = "details::%d"

	msgNoData           = "No data found for this activity"
	msgActivityNotFound = "Activity not found"
)

type activityRepo interface {
	List(ctx context.Context) ([]Activity, error)
	Get(ctx context.Context, id int) (*Activity, error)
	Samples(ctx context.Context, id int) ([]series.Sample, error)
	Month(ctx context.Context, year int, month time.Month) ([]series.ActivityRows, error)
	ProgressActivities(ctx context.Context) ([]series.ProgressActivity, error)
}

// ChartOptions are the per-request defaults and limits of the activity chart.
type ChartOptions struct {
	DefaultSmoothing int
	MaxSmoothing     int
	DefaultLabelUnit series.LabelUnit
}

type Handler struct {
	repo           activityRepo
	responseCache  cache.Cache
	metricsManager *metrics.Manager
	chartOptions   ChartOptions
}

func NewHandler(
	repo activityRepo,
	responseCache cache.Cache,
	metricsManager *metrics.Manager,
	chartOptions ChartOptions,
) *Handler {
	if chartOptions.DefaultSmoothing == 0 {
		chartOptions.DefaultSmoothing = 1
	}
	if chartOptions.DefaultLabelUnit == "" {
		chartOptions.DefaultLabelUnit = series.LabelUnitMinutes
	}
	return &Handler{
		repo:           repo,
		responseCache:  responseCache,
		metricsManager: metricsManager,
		chartOptions:   chartOptions,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.list")
	defer span.End()

	if cached, found := handler.responseCache.Get(cacheKeyActivities); found {
		span.SetAttributes(attribute.Bool("cached", true))
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	activities, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list activities: %s", err)
		pkg.WriteJSONError(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	listItems := make([]ListItem, 0, len(activities))
	for i := range activities {
		listItems = append(listItems, activities[i].ListItem())
	}
	log.Debugf("found %d activities", len(listItems))

	listJson, err := json.Marshal(listItems)
	if err != nil {
		log.Errorf("failed to marshal activities list: %s", err)
		pkg.WriteJSONError(w, "failed to get activities", http.StatusInternalServerError)
		return
	}

	handler.responseCache.Set(cacheKeyActivities, listJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) HandleData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.data")
	defer span.End()

	s, status, msg := handler.activitySeries(ctx, r)
	if s == nil {
		pkg.WriteJSONError(w, msg, status)
		return
	}
	span.SetAttributes(attribute.Int("series.len", s.Len()))

	pkg.WriteJSON(w, s, http.StatusOK)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.export")
	defer span.End()

	s, status, msg := handler.activitySeries(ctx, r)
	if s == nil {
		pkg.WriteJSONError(w, msg, status)
		return
	}

	xlsxBytes, err := ExportXLSX(s)
	if err != nil {
		log.Errorf("failed to export activity [%s] series: %s", mux.Vars(r)["tcxid"], err)
		pkg.WriteJSONError(w, "failed to export activity data", http.StatusInternalServerError)
		return
	}

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="activity-%s.xlsx"`, mux.Vars(r)["tcxid"]),
	)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, xlsxBytes)
}

// activitySeries validates the request and builds the smoothed series. When
// the series is nil, status and msg describe the error response.
func (handler *Handler) activitySeries(ctx context.Context, r *http.Request) (_ *series.Series, status int, msg string) {
	id, err := strconv.Atoi(mux.Vars(r)["tcxid"])
	if err != nil {
		return nil, http.StatusBadRequest, "invalid activity id"
	}

	window := handler.chartOptions.DefaultSmoothing
	if smoothingParam := r.URL.Query().Get("smoothing"); smoothingParam != "" {
		window, err = series.ParseWindow(smoothingParam)
		if err != nil {
			log.Tracef("activity [%d] data: %s", id, err)
			return nil, http.StatusBadRequest, "invalid smoothing value"
		}
	}
	if handler.chartOptions.MaxSmoothing > 0 && window > handler.chartOptions.MaxSmoothing {
		return nil, http.StatusBadRequest, fmt.Sprintf("smoothing must not exceed %d", handler.chartOptions.MaxSmoothing)
	}

	unit := handler.chartOptions.DefaultLabelUnit
	if labelsParam := r.URL.Query().Get("labels"); labelsParam != "" {
		unit, err = series.ParseLabelUnit(labelsParam)
		if err != nil {
			return nil, http.StatusBadRequest, "invalid labels value"
		}
	}

	rows, err := handler.repo.Samples(ctx, id)
	if err != nil {
		log.Errorf("failed to get activity [%d] samples: %s", id, err)
		return nil, http.StatusInternalServerError, "failed to get activity data"
	}

	s, err := series.Extract(rows, unit)
	if err != nil {
		if errors.Is(err, series.ErrEmptySeries) {
			handler.metricsManager.CounterEmptySeries.Inc()
			return nil, http.StatusNotFound, msgNoData
		}
		log.Errorf("failed to extract activity [%d] series: %s", id, err)
		return nil, http.StatusInternalServerError, "failed to get activity data"
	}
	handler.metricsManager.HistSeriesSamples.Observe(float64(s.Len()))

	return series.SmoothSeries(s, window), http.StatusOK, ""
}

func (handler *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.details")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["tcxid"])
	if err != nil {
		pkg.WriteJSONError(w, "invalid activity id", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("tcxid", id))

	cacheKey := fmt.Sprintf(cacheKeyDetails, id)
	if cached, found := handler.responseCache.Get(cacheKey); found {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	activity, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrActivityNotFound) {
			pkg.WriteJSONError(w, msgActivityNotFound, http.StatusNotFound)
			return
		}
		log.Errorf("failed to get activity [%d]: %s", id, err)
		pkg.WriteJSONError(w, "failed to get activity details", http.StatusInternalServerError)
		return
	}

	detailsJson, err := json.Marshal(activity.Details())
	if err != nil {
		log.Errorf("failed to marshal activity [%d] details: %s", id, err)
		pkg.WriteJSONError(w, "failed to get activity details", http.StatusInternalServerError)
		return
	}

	handler.responseCache.Set(cacheKey, detailsJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, detailsJson)
}

func (handler *Handler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.monthly")
	defer span.End()

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 || year > 9999 {
		pkg.WriteJSONError(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		pkg.WriteJSONError(w, "invalid month", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("year", year), attribute.Int("month", month))

	monthActivities, err := handler.repo.Month(ctx, year, time.Month(month))
	if err != nil {
		log.Errorf("failed to get activities for %d-%02d: %s", year, month, err)
		pkg.WriteJSONError(w, "failed to get monthly data", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, series.Aggregate(monthActivities), http.StatusOK)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.progress")
	defer span.End()

	progressActivities, err := handler.repo.ProgressActivities(ctx)
	if err != nil {
		log.Errorf("failed to get progress activities: %s", err)
		pkg.WriteJSONError(w, "failed to get progress data", http.StatusInternalServerError)
		return
	}

	progress := series.BuildProgress(progressActivities)
	span.SetAttributes(attribute.Int("progress.len", len(progress.Labels)))

	pkg.WriteJSON(w, progress, http.StatusOK)
}

// RegisterRoutes adds the chart API to the given (sub)router.
func (handler *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/activities", handler.HandleList).Methods("GET", "OPTIONS").Name("activities")
	r.HandleFunc("/activity_data/{tcxid:[0-9]+}", handler.HandleData).Methods("GET", "OPTIONS").Name("activity-data")
	r.HandleFunc("/activity_data/{tcxid:[0-9]+}/export.xlsx", handler.HandleExport).Methods("GET", "OPTIONS").Name("activity-export")
	r.HandleFunc("/activity_details/{tcxid:[0-9]+}", handler.HandleDetails).Methods("GET", "OPTIONS").Name("activity-details")
	r.HandleFunc("/monthly_data/{year:[0-9]+}/{month:[0-9]+}", handler.HandleMonthly).Methods("GET", "OPTIONS").Name("monthly-data")
	r.HandleFunc("/progress_data", handler.HandleProgress).Methods("GET", "OPTIONS").Name("progress-data")
}
