// Package capture implements the live metrics capture service on top of
// PostgreSQL. Raw samples live in the metric_samples table; a Store hands
// out per-entity views that satisfy livemetrics.Capture.
package capture

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/janakawicks/manageiq/internal/db"
	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/logging"
	"github.com/janakawicks/manageiq/internal/metrics"
)

const (
	queryMetricsAvailable = `SELECT DISTINCT metric FROM metric_samples
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY metric`

	queryLiveMetric = `SELECT date_trunc($1, captured_at) AS bucket, avg(value) AS value
		FROM metric_samples
		WHERE entity_type = $2 AND entity_id = $3 AND metric = $4
		AND captured_at >= $5 AND captured_at <= $6
		GROUP BY 1 ORDER BY 1`

	queryRawValues = `SELECT value FROM metric_samples
		WHERE entity_type = $1 AND entity_id = $2 AND metric = $3
		AND captured_at >= $4 AND captured_at <= $5
		ORDER BY captured_at`

	queryCaptureBounds = `SELECT min(captured_at) AS first, max(captured_at) AS last
		FROM metric_samples
		WHERE entity_type = $1 AND entity_id = $2 AND metric = $3`

	insertSample = `INSERT INTO metric_samples (entity_type, entity_id, metric, captured_at, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_type, entity_id, metric, captured_at) DO UPDATE SET value = EXCLUDED.value`

	deleteSamplesBefore = `DELETE FROM metric_samples WHERE captured_at < $1`
)

// Operation names used for error context and instrumentation.
const (
	OpFetchMetricsAvailable = "fetch_metrics_available"
	OpCollectLiveMetric     = "collect_live_metric"
	OpCollectStatsMetric    = "collect_stats_metric"
	OpFirstAndLastCapture   = "first_and_last_capture"
	OpRecord                = "record_samples"
	OpPurge                 = "purge_samples"
)

// truncUnits maps an interval to its date_trunc field.
var truncUnits = map[livemetrics.Interval]string{
	livemetrics.IntervalRealtime: "second",
	livemetrics.IntervalHourly:   "hour",
	livemetrics.IntervalDaily:    "day",
}

// Sample is one raw capture of a metric for an entity.
type Sample struct {
	EntityType string
	EntityID   uuid.UUID
	Metric     string
	CapturedAt time.Time
	Value      float64
}

// Store is the PostgreSQL-backed capture service.
type Store struct {
	db       *db.DB
	recorder metrics.Recorder
	logger   *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRecorder instruments every entity capture handed out by the store.
func WithRecorder(recorder metrics.Recorder) StoreOption {
	return func(s *Store) {
		s.recorder = recorder
	}
}

// WithStoreLogger sets the logger used by the store.
func WithStoreLogger(logger *logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a capture store over an open database.
func NewStore(database *db.DB, opts ...StoreOption) *Store {
	s := &Store{
		db:       database,
		recorder: metrics.Nop{},
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("capture_store")
	return s
}

// ForEntity returns the capture service scoped to one entity.
func (s *Store) ForEntity(entityType string, id uuid.UUID) livemetrics.Capture {
	return Instrument(&entityCapture{
		store:      s,
		entityType: entityType,
		entityID:   id,
	}, s.recorder)
}

// Record upserts raw samples in a single transaction.
func (s *Store) Record(ctx context.Context, samples ...Sample) error {
	if len(samples) == 0 {
		return nil
	}
	for i, sample := range samples {
		if err := sample.validate(); err != nil {
			return errors.NewValidationError(fmt.Sprintf("samples[%d]", i), err.Error())
		}
	}

	start := time.Now()
	err := s.record(ctx, samples)
	code := ""
	if err != nil {
		code = string(errors.GetCode(err))
	} else {
		s.recorder.AddSamplesRecorded(len(samples))
	}
	s.recorder.RecordCaptureCall(OpRecord, time.Since(start), code)
	if err != nil {
		return err
	}

	s.logger.Debug("Recorded samples", "count", len(samples))
	return nil
}

// Purge deletes every sample captured before the given time and reports how
// many rows were removed.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		return 0, errors.NewValidationError("before", "purge cutoff is required")
	}

	start := time.Now()
	removed, err := s.purge(ctx, before.UTC())
	code := ""
	if err != nil {
		code = string(errors.GetCode(err))
	}
	s.recorder.RecordCaptureCall(OpPurge, time.Since(start), code)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Purged samples", "count", removed, "before", before.UTC())
	return removed, nil
}

func (s *Store) purge(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, deleteSamplesBefore, before)
	if err != nil {
		return 0, db.SanitizeError(OpPurge, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, db.SanitizeError(OpPurge, err)
	}
	return removed, nil
}

func (s *Store) record(ctx context.Context, samples []Sample) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return db.SanitizeError(OpRecord, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, insertSample)
	if err != nil {
		return db.SanitizeError(OpRecord, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sample := range samples {
		_, err := stmt.ExecContext(ctx,
			sample.EntityType, sample.EntityID.String(), sample.Metric,
			sample.CapturedAt.UTC(), sample.Value)
		if err != nil {
			return db.SanitizeError(OpRecord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return db.SanitizeError(OpRecord, err)
	}
	return nil
}

func (s Sample) validate() error {
	switch {
	case !livemetrics.ValidTypeName(s.EntityType):
		return fmt.Errorf("invalid entity type %q", s.EntityType)
	case s.EntityID == uuid.Nil:
		return fmt.Errorf("entity id is required")
	case s.Metric == "":
		return fmt.Errorf("metric is required")
	case s.CapturedAt.IsZero():
		return fmt.Errorf("captured_at is required")
	}
	return nil
}

// entityCapture is the capture service for a single entity.
type entityCapture struct {
	store      *Store
	entityType string
	entityID   uuid.UUID
}

var _ livemetrics.Capture = (*entityCapture)(nil)

func (c *entityCapture) FetchMetricsAvailable(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := c.store.db.SelectContext(ctx, &names, queryMetricsAvailable,
		c.entityType, c.entityID.String()); err != nil {
		return nil, db.SanitizeError(OpFetchMetricsAvailable, err)
	}
	return names, nil
}

type bucketRow struct {
	Bucket time.Time `db:"bucket"`
	Value  float64   `db:"value"`
}

func (c *entityCapture) CollectLiveMetric(
	ctx context.Context, metric string, start, end time.Time, interval livemetrics.Interval,
) (livemetrics.Series, error) {
	unit, ok := truncUnits[interval]
	if !ok {
		return nil, errors.NewValidationError("interval", fmt.Sprintf("unknown interval %q", interval))
	}

	var rows []bucketRow
	if err := c.store.db.SelectContext(ctx, &rows, queryLiveMetric,
		unit, c.entityType, c.entityID.String(), metric, start.UTC(), end.UTC()); err != nil {
		return nil, db.SanitizeError(OpCollectLiveMetric, err)
	}

	series := make(livemetrics.Series, len(rows))
	for _, row := range rows {
		series[row.Bucket.UnixMilli()] = livemetrics.Bucket{metric: row.Value}
	}
	return series, nil
}

func (c *entityCapture) CollectStatsMetric(
	ctx context.Context, metric string, start, end time.Time,
) (*livemetrics.Stats, error) {
	var values []float64
	if err := c.store.db.SelectContext(ctx, &values, queryRawValues,
		c.entityType, c.entityID.String(), metric, start.UTC(), end.UTC()); err != nil {
		return nil, db.SanitizeError(OpCollectStatsMetric, err)
	}
	return Summarize(metric, values), nil
}

type boundsRow struct {
	First sql.NullTime `db:"first"`
	Last  sql.NullTime `db:"last"`
}

func (c *entityCapture) FirstAndLastCapture(ctx context.Context, metric string) (int64, int64, error) {
	var bounds boundsRow
	if err := c.store.db.GetContext(ctx, &bounds, queryCaptureBounds,
		c.entityType, c.entityID.String(), metric); err != nil {
		return 0, 0, db.SanitizeError(OpFirstAndLastCapture, err)
	}
	if !bounds.First.Valid || !bounds.Last.Valid {
		return 0, 0, errors.ErrNoCaptures(metric).
			WithContext("entity_type", c.entityType).
			WithContext("entity_id", c.entityID.String())
	}
	return bounds.First.Time.UnixMilli(), bounds.Last.Time.UnixMilli(), nil
}
