package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several apps can live in one process.
type Collector struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    prometheus.Histogram
	rateLimited prometheus.Counter
	reports     *prometheus.CounterVec
	exports     *prometheus.CounterVec
	logins      *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workportal_http_requests_total",
			Help: "HTTP requests by status code.",
		}, []string{"code"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "workportal_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "workportal_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		reports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workportal_work_reports_total",
			Help: "Work report mutations by operation.",
		}, []string{"op"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workportal_exports_total",
			Help: "Generated exports by format.",
		}, []string{"format"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workportal_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.duration.Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

// ReportMutation counts submit, update and delete operations.
func (c *Collector) ReportMutation(op string) {
	c.reports.WithLabelValues(op).Inc()
}

func (c *Collector) Export(format string) {
	c.exports.WithLabelValues(format).Inc()
}

func (c *Collector) Login(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
