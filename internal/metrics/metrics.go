package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client-side collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	ImageChecks    *prometheus.CounterVec
	ImageCacheHits prometheus.Counter
	StaleResponses *prometheus.CounterVec
	Fetches        *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "storeadmin"
	}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Outgoing HTTP attempts by host, method and status (0 when no answer came back).",
		}, []string{"host", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Outgoing HTTP attempt duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host", "method"}),
		ImageChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_checks_total",
			Help:      "Image availability checks by result (available, unavailable, timeout).",
		}, []string{"result"}),
		ImageCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_cache_hits_total",
			Help:      "Availability checks answered from the image cache.",
		}),
		StaleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "List responses dropped because a newer fetch was issued.",
		}, []string{"store"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fetches_total",
			Help:      "Store fetches by store and outcome.",
		}, []string{"store", "outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.ImageChecks,
		m.ImageCacheHits,
		m.StaleResponses,
		m.Fetches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest satisfies transport.Observer.
func (m *Metrics) ObserveRequest(host, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(host, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(host, method).Observe(d.Seconds())
}

func (m *Metrics) ImageCheck(result string) {
	if m == nil {
		return
	}
	m.ImageChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) ImageCacheHit() {
	if m == nil {
		return
	}
	m.ImageCacheHits.Inc()
}

func (m *Metrics) StaleResponse(store string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(store).Inc()
}

func (m *Metrics) Fetch(store, outcome string) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(store, outcome).Inc()
}
