package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/timer"
)

const namespace = "timereg"

var (
	_ scope.Recorder   = (*Metrics)(nil)
	_ timer.Recorder   = (*Metrics)(nil)
	_ catalog.Recorder = (*Metrics)(nil)
)

// Metrics contadores Prometheus del guardián de alcance, del temporizador y del catálogo.
type Metrics struct {
	ScopeRejections *prometheus.CounterVec
	TimersStarted   prometheus.Counter
	TimersStopped   prometheus.Counter
	TimerRejections *prometheus.CounterVec
	HoursRecorded   prometheus.Counter
	NumberRetries   *prometheus.CounterVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en la API, un registro propio en tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ScopeRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scope",
			Name:      "rejections_total",
			Help:      "Operaciones rechazadas por el guardián de alcance, por motivo.",
		}, []string{"reason"}), // unauthenticated, no_active_company
		TimersStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "started_total",
			Help:      "Temporizadores iniciados.",
		}),
		TimersStopped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "stopped_total",
			Help:      "Temporizadores detenidos.",
		}),
		TimerRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "rejections_total",
			Help:      "Operaciones de temporizador rechazadas, por motivo.",
		}, []string{"reason"}),
		HoursRecorded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timer",
			Name:      "hours_recorded_total",
			Help:      "Horas registradas al detener temporizadores (según la política de redondeo).",
		}),
		NumberRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "number_conflict_retries_total",
			Help:      "Reintentos por colisión del número secuencial, por tipo.",
		}, []string{"kind"}), // customer, project
	}
}

func (m *Metrics) ScopeRejected(reason string) {
	m.ScopeRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) TimerStarted() {
	m.TimersStarted.Inc()
}

func (m *Metrics) TimerStopped(hours float64) {
	m.TimersStopped.Inc()
	if hours > 0 {
		m.HoursRecorded.Add(hours)
	}
}

func (m *Metrics) TimerRejected(reason string) {
	m.TimerRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) CatalogConflictRetried(kind string) {
	m.NumberRetries.WithLabelValues(kind).Inc()
}
