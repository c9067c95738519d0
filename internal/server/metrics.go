package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kilupskalvis/gitsim/internal/shell"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the playground's Prometheus collectors.
type Metrics struct {
	commands *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. sessions reports the number of
// live sessions at scrape time.
func NewMetrics(reg prometheus.Registerer, sessions func() int) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitsim_commands_total",
				Help: "Commands executed, by command keyword and outcome.",
			},
			[]string{"command", "outcome"},
		),
		requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gitsim_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	active := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "gitsim_sessions_active",
			Help: "Live playground sessions.",
		},
		func() float64 { return float64(sessions()) },
	)
	reg.MustRegister(m.commands, m.requests, active)
	return m
}

// ObserveCommand counts one executed command. Blank lines are not counted.
func (m *Metrics) ObserveCommand(res shell.Result) {
	if res.Command == "" {
		return
	}
	m.commands.WithLabelValues(res.Command, res.Outcome()).Inc()
}

// middleware records request latency labeled with the matched chi route.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}
