package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ecolend-api/internal/application/ports"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

const namespace = "ecolend"

// Metrics agrupa los colectores HTTP y de préstamos sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loansCreated  prometheus.Counter
	unitsLoaned   prometheus.Counter
	loansSettled  *prometheus.CounterVec
	loansRejected *prometheus.CounterVec

	jobRuns *prometheus.CounterVec
}

// New registra todos los colectores. withRuntime añade los de proceso y Go.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		loansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_created_total",
			Help:      "Loans successfully created.",
		}),
		unitsLoaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_units_total",
			Help:      "Equipment units checked out.",
		}),
		loansSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loans_settled_total",
			Help:      "Loans closed, by final status.",
		}, []string{"status"}),
		loansRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_operations_rejected_total",
			Help:      "Loan operations that failed, by operation and reason.",
		}, []string{"op", "reason"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduled_job_runs_total",
			Help:      "Scheduled job executions, by job and outcome.",
		}, []string{"job", "outcome"}),
	}
	m.registry.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.loansCreated, m.unitsLoaned, m.loansSettled, m.loansRejected,
		m.jobRuns,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry expone el registro (tests y exportadores).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware mide RPS, latencia y peticiones en curso.
// Usa la ruta registrada (p. ej. /api/loans/:id) para no disparar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" || path == "/" {
			path = c.Path()
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
		return err
	}
}

func (m *Metrics) LoanCreated(l *entity.Loan) {
	m.loansCreated.Inc()
	m.unitsLoaned.Add(float64(l.Quantity))
}

func (m *Metrics) LoanSettled(l *entity.Loan) {
	m.loansSettled.WithLabelValues(string(l.Status)).Inc()
}

func (m *Metrics) LoanRejected(op, reason string) {
	m.loansRejected.WithLabelValues(op, reason).Inc()
}

// JobRun cuenta una ejecución de tarea programada.
func (m *Metrics) JobRun(job string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}

var _ ports.LoanObserver = (*Metrics)(nil)
