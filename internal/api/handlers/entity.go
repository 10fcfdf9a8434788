package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
)

// CaptureProvider hands out the capture service of one entity.
type CaptureProvider interface {
	ForEntity(entityType string, id uuid.UUID) livemetrics.Capture
}

// EntityHandler serves the entity-facing live metrics operations.
type EntityHandler struct {
	registry    *livemetrics.Registry
	captures    CaptureProvider
	logger      *logging.Logger
	validate    *validator.Validate
	concurrency int
	now         func() time.Time
}

// EntityHandlerOption configures an EntityHandler.
type EntityHandlerOption func(*EntityHandler)

// WithConcurrency bounds the parallel capture calls of one live request.
func WithConcurrency(n int) EntityHandlerOption {
	return func(h *EntityHandler) {
		h.concurrency = n
	}
}

// WithClock overrides the clock used for capture windows.
func WithClock(now func() time.Time) EntityHandlerOption {
	return func(h *EntityHandler) {
		h.now = now
	}
}

// NewEntityHandler creates the entity handler.
func NewEntityHandler(
	registry *livemetrics.Registry,
	captures CaptureProvider,
	logger *logging.Logger,
	opts ...EntityHandlerOption,
) *EntityHandler {
	h := &EntityHandler{
		registry:    registry,
		captures:    captures,
		logger:      logger.WithFields("handler", "entity"),
		validate:    newValidator(),
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("query")
	})
	return v
}

// ConfigResponse describes the live metrics declaration of an entity type.
type ConfigResponse struct {
	EntityType               string            `json:"entity_type"`
	SupportedMetrics         map[string]string `json:"supported_metrics"`
	SupportedMetricsByColumn map[string]string `json:"supported_metrics_by_column"`
	IncludedChildren         []string          `json:"included_children"`
}

// AvailableResponse lists the metrics with captures for an entity.
type AvailableResponse struct {
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id" swaggertype:"string" format:"uuid"`
	Metrics    []string  `json:"metrics"`
}

// LiveResponse carries a merged live metric series.
type LiveResponse struct {
	EntityType string             `json:"entity_type"`
	EntityID   uuid.UUID          `json:"entity_id" swaggertype:"string" format:"uuid"`
	Interval   string             `json:"interval"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Metrics    []string           `json:"metrics"`
	Series     livemetrics.Series `json:"series"`
}

// StatsResponse carries the summary of one metric.
type StatsResponse struct {
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id" swaggertype:"string" format:"uuid"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	*livemetrics.Stats
}

// WindowResponse carries the capture window of an entity.
type WindowResponse struct {
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id" swaggertype:"string" format:"uuid"`
	Interval   string     `json:"interval"`
	First      *time.Time `json:"first"`
	Last       *time.Time `json:"last"`
}

type liveQuery struct {
	Metrics  []string  `query:"metric" validate:"required,min=1,max=50,dive,required"`
	Start    time.Time `query:"start" validate:"required"`
	End      time.Time `query:"end" validate:"required,gtefield=Start"`
	Interval string    `query:"interval" validate:"required,oneof=realtime hourly daily"`
}

type statsQuery struct {
	Metric string    `query:"metric" validate:"required"`
	Start  time.Time `query:"start" validate:"required"`
	End    time.Time `query:"end" validate:"required,gtefield=Start"`
}

type windowQuery struct {
	Interval string `query:"interval" validate:"required,oneof=realtime hourly daily"`
}

// Config returns the supported metrics, their inverse and the included
// children declared for an entity type.
//
// @Summary Entity type configuration
// @Description Supported metrics, their inverse and included children for an entity type
// @Tags Entities
// @Produce json
// @Param type path string true "Entity type" example(host)
// @Success 200 {object} ConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /entities/{type}/config [get]
// @ID getEntityConfig
func (h *EntityHandler) Config(w http.ResponseWriter, r *http.Request) {
	entityType, err := extractEntityType(r)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	cfg, err := h.registry.Config(entityType)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	byColumn, err := h.registry.SupportedMetricsByColumn(entityType)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	children := cfg.IncludedChildren
	if children == nil {
		children = []string{}
	}
	writeJSON(w, r, http.StatusOK, ConfigResponse{
		EntityType:               entityType,
		SupportedMetrics:         cfg.SupportedMetrics,
		SupportedMetricsByColumn: byColumn,
		IncludedChildren:         children,
	})
}

// MetricsAvailable lists the metrics the capture service holds for an entity.
//
// @Summary Metrics available
// @Description Metric identifiers with captures for an entity
// @Tags Entities
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID" format(uuid)
// @Success 200 {object} AvailableResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /entities/{type}/{id}/metrics [get]
// @ID getMetricsAvailable
func (h *EntityHandler) MetricsAvailable(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entity(r)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	available, err := entity.MetricsAvailable(r.Context())
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	writeJSON(w, r, http.StatusOK, AvailableResponse{
		EntityType: entity.LiveMetricsName(),
		EntityID:   entity.ID(),
		Metrics:    available,
	})
}

// Live collects and merges the series of the requested metrics. Metrics may
// be named by their configured key or by capture identifier.
//
// @Summary Live metrics
// @Description Merged time series of the requested metrics, keyed by bucket timestamp in epoch milliseconds
// @Tags Entities
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID" format(uuid)
// @Param metric query []string true "Metric key or identifier" collectionFormat(multi)
// @Param start query string true "Range start, RFC 3339 or epoch milliseconds"
// @Param end query string true "Range end, RFC 3339 or epoch milliseconds"
// @Param interval query string false "Bucket interval" Enums(realtime, hourly, daily) default(realtime)
// @Success 200 {object} LiveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /entities/{type}/{id}/live [get]
// @ID getLiveMetrics
func (h *EntityHandler) Live(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entity(r)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	query := liveQuery{
		Metrics:  queryValues(r, "metric"),
		Interval: r.URL.Query().Get("interval"),
	}
	if query.Interval == "" {
		query.Interval = livemetrics.IntervalRealtime.String()
	}
	if query.Start, err = parseTimeParam(r, "start"); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	if query.End, err = parseTimeParam(r, "end"); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	if err := h.validateQuery(query); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	metrics, err := entity.ResolveMetrics(query.Metrics)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	interval := livemetrics.Interval(query.Interval)
	series, err := entity.CollectLiveMetrics(r.Context(), metrics, query.Start, query.End, interval)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, LiveResponse{
		EntityType: entity.LiveMetricsName(),
		EntityID:   entity.ID(),
		Interval:   query.Interval,
		Start:      query.Start,
		End:        query.End,
		Metrics:    metrics,
		Series:     series,
	})
}

// Stats summarizes one metric over a time range.
//
// @Summary Metric stats
// @Description Count, extremes, mean and percentiles of one metric over a range
// @Tags Entities
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID" format(uuid)
// @Param metric query string true "Metric key or identifier"
// @Param start query string true "Range start, RFC 3339 or epoch milliseconds"
// @Param end query string true "Range end, RFC 3339 or epoch milliseconds"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /entities/{type}/{id}/stats [get]
// @ID getMetricStats
func (h *EntityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entity(r)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	query := statsQuery{Metric: r.URL.Query().Get("metric")}
	if query.Start, err = parseTimeParam(r, "start"); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	if query.End, err = parseTimeParam(r, "end"); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}
	if err := h.validateQuery(query); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	metrics, err := entity.ResolveMetrics([]string{query.Metric})
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	stats, err := entity.CollectStatsMetric(r.Context(), metrics[0], query.Start, query.End)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, StatsResponse{
		EntityType: entity.LiveMetricsName(),
		EntityID:   entity.ID(),
		Start:      query.Start,
		End:        query.End,
		Stats:      stats,
	})
}

// CaptureWindow reports the oldest and newest capture across the entity's
// metrics. Capture failures yield an empty window rather than an error.
//
// @Summary Capture window
// @Description Oldest and newest capture across the entity's metrics; bounds are null when unavailable
// @Tags Entities
// @Produce json
// @Param type path string true "Entity type"
// @Param id path string true "Entity ID" format(uuid)
// @Param interval query string false "Interval name" Enums(realtime, hourly, daily) default(realtime)
// @Success 200 {object} WindowResponse
// @Failure 400 {object} ErrorResponse
// @Router /entities/{type}/{id}/capture-window [get]
// @ID getCaptureWindow
func (h *EntityHandler) CaptureWindow(w http.ResponseWriter, r *http.Request) {
	entity, err := h.entity(r)
	if err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	query := windowQuery{Interval: r.URL.Query().Get("interval")}
	if query.Interval == "" {
		query.Interval = livemetrics.IntervalRealtime.String()
	}
	if err := h.validateQuery(query); err != nil {
		handleError(w, r, h.logger.Logger, err)
		return
	}

	window := entity.FirstAndLastCapture(r.Context(), query.Interval)
	writeJSON(w, r, http.StatusOK, WindowResponse{
		EntityType: entity.LiveMetricsName(),
		EntityID:   entity.ID(),
		Interval:   query.Interval,
		First:      window.First,
		Last:       window.Last,
	})
}

func (h *EntityHandler) entity(r *http.Request) (*livemetrics.Entity, error) {
	entityType, err := extractEntityType(r)
	if err != nil {
		return nil, err
	}
	id, err := extractUUIDFromPath(r)
	if err != nil {
		return nil, err
	}

	return livemetrics.NewEntity(entityType, id, h.captures.ForEntity(entityType, id), h.registry,
		livemetrics.WithLogger(h.logger),
		livemetrics.WithClock(h.now),
		livemetrics.WithCollectConcurrency(h.concurrency),
	), nil
}

func (h *EntityHandler) validateQuery(query any) error {
	err := h.validate.Struct(query)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Field(), fmt.Sprintf("failed %q validation", fe.Tag()))
	}
	return errors.NewValidationError("", err.Error())
}
