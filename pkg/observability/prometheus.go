package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clawctl"

// PrometheusHooks records every hook event into a private Prometheus
// registry. It implements [HTTPHooks], [CacheHooks] and [ChainHooks].
type PrometheusHooks struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec

	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec

	chainCalls   *prometheus.CounterVec
	chainLatency *prometheus.HistogramVec
	txSent       *prometheus.CounterVec
	txMined      *prometheus.CounterVec
	txWait       *prometheus.HistogramVec
}

// NewPrometheusHooks creates hooks backed by a fresh registry.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &PrometheusHooks{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests by response status.",
		}, []string{"method", "host", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"method", "host"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "API requests that failed before a response was received.",
		}, []string{"method", "host"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		chainCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "calls_total",
			Help:      "Read-only contract calls by result.",
		}, []string{"method", "result"}),
		chainLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "call_duration_seconds",
			Help:      "Contract call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		txSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "tx_sent_total",
			Help:      "Transactions broadcast by kind.",
		}, []string{"kind"}),
		txMined: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "tx_mined_total",
			Help:      "Mined transactions by kind and outcome.",
		}, []string{"kind", "result"}),
		txWait: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "tx_confirmation_seconds",
			Help:      "Time from broadcast to receipt.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"kind"}),
	}
}

// Registry exposes the underlying registry, e.g. for promhttp or tests.
func (p *PrometheusHooks) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (p *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnError(_ context.Context, method, host, _ string, _ error) {
	p.httpErrors.WithLabelValues(method, host).Inc()
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnCall(_ context.Context, method string, d time.Duration, err error) {
	p.chainCalls.WithLabelValues(method, result(err == nil)).Inc()
	p.chainLatency.WithLabelValues(method).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnTxSent(_ context.Context, kind, _ string) {
	p.txSent.WithLabelValues(kind).Inc()
}

func (p *PrometheusHooks) OnTxMined(_ context.Context, kind string, success bool, d time.Duration) {
	p.txMined.WithLabelValues(kind, result(success)).Inc()
	p.txWait.WithLabelValues(kind).Observe(d.Seconds())
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

var (
	_ HTTPHooks  = (*PrometheusHooks)(nil)
	_ CacheHooks = (*PrometheusHooks)(nil)
	_ ChainHooks = (*PrometheusHooks)(nil)
)
