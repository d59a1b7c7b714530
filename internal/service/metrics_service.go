package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	audioBytes      prometheus.Counter
	uploadsTotal    *prometheus.CounterVec
	transcodeTime   prometheus.Histogram
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	audioBytes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audio_bytes_streamed_total",
		Help: "Total bytes of lesson audio served",
	})

	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audio_uploads_total",
		Help: "Total audio uploads by outcome",
	}, []string{"outcome"})

	transcodeTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "audio_transcode_duration_seconds",
		Help:    "Duration of audio transcode runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, audioBytes, uploadsTotal, transcodeTime, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		audioBytes:      audioBytes,
		uploadsTotal:    uploadsTotal,
		transcodeTime:   transcodeTime,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveAudioStreamed adds served audio bytes.
func (m *MetricsService) ObserveAudioStreamed(bytes int64) {
	if m == nil || bytes <= 0 {
		return
	}
	m.audioBytes.Add(float64(bytes))
}

// ObserveUpload records an upload outcome and, when it succeeded, the
// transcode duration.
func (m *MetricsService) ObserveUpload(ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.uploadsTotal.WithLabelValues(outcome).Inc()
	if ok {
		m.transcodeTime.Observe(duration.Seconds())
	}
}
