package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/m-curtis/altmeta/internal/dataset"
)

// Metrics holds all Prometheus collectors for the backend.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ReloadDuration   prometheus.Histogram
	ReloadFailures   prometheus.Counter
	SnapshotTitles   prometheus.GaugeFunc
	SnapshotThumbs   prometheus.GaugeFunc
	SnapshotVideos   prometheus.GaugeFunc
	SnapshotAgeSecs  prometheus.GaugeFunc
	SnapshotSkipped  prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(store *dataset.Store) {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "altmeta_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "altmeta_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.ReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "altmeta_reload_duration_seconds",
			Help:    "Duration of dataset reloads.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	Metrics.ReloadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "altmeta_reload_failures_total",
			Help: "Total failed dataset reloads.",
		},
	)

	// Snapshot gauges read the live snapshot pointer on every scrape.
	if store != nil {
		Metrics.SnapshotTitles = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "altmeta_snapshot_titles",
				Help: "Titles in the published snapshot.",
			},
			func() float64 {
				if snap := store.Current(); snap != nil {
					return float64(len(snap.Data.Titles))
				}
				return 0
			},
		)

		Metrics.SnapshotThumbs = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "altmeta_snapshot_thumbnails",
				Help: "Thumbnails in the published snapshot.",
			},
			func() float64 {
				if snap := store.Current(); snap != nil {
					return float64(len(snap.Data.Thumbnails))
				}
				return 0
			},
		)

		Metrics.SnapshotVideos = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "altmeta_snapshot_videos",
				Help: "Distinct videos known to the published snapshot.",
			},
			func() float64 {
				if snap := store.Current(); snap != nil {
					return float64(snap.Index.KnownVideos())
				}
				return 0
			},
		)

		Metrics.SnapshotAgeSecs = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "altmeta_snapshot_age_seconds",
				Help: "Seconds since the published snapshot was built.",
			},
			func() float64 {
				if snap := store.Current(); snap != nil {
					return time.Since(snap.LastUpdated).Seconds()
				}
				return 0
			},
		)

		Metrics.SnapshotSkipped = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "altmeta_snapshot_skipped_rows",
				Help: "Source rows skipped while building the published snapshot.",
			},
			func() float64 {
				if snap := store.Current(); snap != nil {
					return float64(snap.Stats.TotalSkipped())
				}
				return 0
			},
		)

		prometheus.MustRegister(
			Metrics.SnapshotTitles,
			Metrics.SnapshotThumbs,
			Metrics.SnapshotVideos,
			Metrics.SnapshotAgeSecs,
			Metrics.SnapshotSkipped,
		)
	}

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.ReloadDuration,
		Metrics.ReloadFailures,
	)
}

// reloadOutcome records one reload attempt.
func reloadOutcome(err error, took time.Duration) {
	if Metrics.ReloadDuration == nil {
		return
	}
	if err != nil {
		Metrics.ReloadFailures.Inc()
		return
	}
	Metrics.ReloadDuration.Observe(took.Seconds())
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/videos/"):
		if strings.HasSuffix(path, "/random") {
			return "/api/videos/:videoId/random"
		}
		return "/api/videos/:videoId"
	case strings.HasPrefix(path, "/api/titles/uuid/"):
		return "/api/titles/uuid/:uuid"
	case strings.HasPrefix(path, "/api/titles/video_id/"):
		return "/api/titles/video_id/:videoId"
	case strings.HasPrefix(path, "/api/titles/user_id/"):
		return "/api/titles/user_id/:userId"
	case strings.HasPrefix(path, "/api/thumbnails/uuid/"):
		return "/api/thumbnails/uuid/:uuid"
	case strings.HasPrefix(path, "/api/thumbnails/video_id/"):
		return "/api/thumbnails/video_id/:videoId"
	case strings.HasPrefix(path, "/api/thumbnails/user_id/"):
		return "/api/thumbnails/user_id/:userId"
	case strings.HasPrefix(path, "/api/users/user_id/"):
		return "/api/users/user_id/:userId"
	case strings.HasPrefix(path, "/api/search/"):
		return "/api/search/:hashPrefix"
	case strings.HasPrefix(path, "/sbserver/api/branding/"):
		return "/sbserver/api/branding/:hashPrefix"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
