// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Operations          *prometheus.CounterVec
	InvoicesGenerated   prometheus.Counter
	InvoicedAmount      prometheus.Counter
	OverdueMarked       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workshop_operations_total",
				Help: "Service operations by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		InvoicesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workshop_invoices_generated_total",
			Help: "Invoices generated from completed job cards",
		}),
		InvoicedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workshop_invoiced_amount_total",
			Help: "Sum of generated invoice totals",
		}),
		OverdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workshop_invoices_overdue_total",
			Help: "Invoices flagged overdue by the sweep",
		}),
	}
	m.Registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.Operations,
		m.InvoicesGenerated,
		m.InvoicedAmount,
		m.OverdueMarked,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Operation counts one service operation. outcome is "ok" or an error kind.
func (m *Metrics) Operation(action, outcome string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(action, outcome).Inc()
}

// InvoiceGenerated records a new invoice total.
func (m *Metrics) InvoiceGenerated(total float64) {
	if m == nil {
		return
	}
	m.InvoicesGenerated.Inc()
	m.InvoicedAmount.Add(total)
}

// Overdue records invoices flagged by the sweep.
func (m *Metrics) Overdue(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OverdueMarked.Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by the matched
// ServeMux pattern. It must wrap the mux directly to see the pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "undefined"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}
