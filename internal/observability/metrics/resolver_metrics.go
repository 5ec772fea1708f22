package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/shiptable/internal/packaging"
	"gorm.io/gorm"
)

const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

const (
	ErrorTypeDeadlineExceeded     = "deadline_exceeded"
	ErrorTypeCanceled             = "canceled"
	ErrorTypeDBLockTimeout        = "db_lock_timeout"
	ErrorTypeSerializationFailure = "serialization_failure"
	ErrorTypeDBConnection         = "db_connection"
	ErrorTypeDB                   = "db"
	ErrorTypePackaging            = "packaging"
	ErrorTypeUnknown              = "unknown"
)

// ResolverMetrics captures rate resolution latency and failure signals.
type ResolverMetrics struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	scanned     prometheus.Histogram
	errors      *prometheus.CounterVec
}

var (
	resolverMetricsOnce sync.Once
	resolverMetrics     *ResolverMetrics
)

// Resolver returns the process-wide resolver metrics registered on the
// default prometheus registerer.
func Resolver() *ResolverMetrics {
	return ResolverWithConfig(Config{})
}

func ResolverWithConfig(cfg Config) *ResolverMetrics {
	resolverMetricsOnce.Do(func() {
		resolverMetrics = NewResolverMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return resolverMetrics
}

// ResetResolverMetricsForTest resets the resolver metrics singleton for tests.
func ResetResolverMetricsForTest() {
	resolverMetricsOnce = sync.Once{}
	resolverMetrics = nil
}

func NewResolverMetrics(registerer prometheus.Registerer, cfg Config) *ResolverMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "shiptable"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "shiptable_resolutions_total",
		Help:        "Rate resolutions by behavior kind and outcome.",
		ConstLabels: constLabels,
	}, []string{"behavior_kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "shiptable_resolution_duration_seconds",
		Help:        "Rate resolution latency including weight calculation and catalog reads.",
		Buckets:     []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"behavior_kind"})
	scanned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "shiptable_resolution_candidates_scanned",
		Help:        "Candidates inspected before a resolution finished.",
		Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		ConstLabels: constLabels,
	})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "shiptable_resolution_errors_total",
		Help:        "Rate resolution failures by low-cardinality error type.",
		ConstLabels: constLabels,
	}, []string{"behavior_kind", "error_type"})

	registerer.MustRegister(resolutions, duration, scanned, errs)

	return &ResolverMetrics{
		resolutions: resolutions,
		duration:    duration,
		scanned:     scanned,
		errors:      errs,
	}
}

func (m *ResolverMetrics) ObserveResolution(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.resolutions.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *ResolverMetrics) ObserveCandidatesScanned(n int) {
	if m == nil {
		return
	}
	m.scanned.Observe(float64(n))
}

func (m *ResolverMetrics) IncError(kind string, err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(kind), ClassifyErrorType(err)).Inc()
}

// ClassifyErrorType maps resolution errors to low-cardinality types.
func ClassifyErrorType(err error) string {
	switch {
	case err == nil:
		return ErrorTypeUnknown
	case errors.Is(err, packaging.ErrPacking):
		return ErrorTypePackaging
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	case hasPGCode(err, "55P03"):
		return ErrorTypeDBLockTimeout
	case hasPGCode(err, "40001"):
		return ErrorTypeSerializationFailure
	case isConnectionError(err):
		return ErrorTypeDBConnection
	case isDBError(err):
		return ErrorTypeDB
	default:
		return ErrorTypeUnknown
	}
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	return false
}

func isDBError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if errors.Is(err, gorm.ErrInvalidDB) ||
		errors.Is(err, gorm.ErrInvalidTransaction) ||
		errors.Is(err, gorm.ErrInvalidField) ||
		errors.Is(err, gorm.ErrInvalidData) ||
		errors.Is(err, gorm.ErrUnsupportedDriver) ||
		errors.Is(err, gorm.ErrInvalidValue) ||
		errors.Is(err, gorm.ErrNotImplemented) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
