package facade

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/escolar/internal/application/dispatch"
)

var _ dispatch.Observer = (*Metrics)(nil)

// Metrics colectores Prometheus del cliente. Cada instancia tiene su propio registry.
type Metrics struct {
	registry *prometheus.Registry

	syncTotal    *prometheus.CounterVec
	syncDuration *prometheus.HistogramVec
}

// Indicators estado que se expone como gauges.
type Indicators interface {
	Loading() bool
	Syncing() bool
}

// NewMetrics registra los colectores de sincronización.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "escolar_sync_total",
			Help: "Pushes al almacén remoto por dominio y resultado",
		}, []string{"domain", "result"}), // result: ok|error
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "escolar_sync_duration_seconds",
			Help:    "Duración de los pushes al almacén remoto",
			Buckets: prometheus.DefBuckets,
		}, []string{"domain"}),
	}
	m.registry.MustRegister(m.syncTotal, m.syncDuration)
	return m
}

// ObserveSync implementa dispatch.Observer.
func (m *Metrics) ObserveSync(label string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncTotal.WithLabelValues(label, result).Inc()
	m.syncDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// WatchIndicators publica loading/syncing como gauges 0/1.
func (m *Metrics) WatchIndicators(ind Indicators) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "escolar_loading",
			Help: "1 mientras se cargan datos de la escuela",
		}, func() float64 { return boolGauge(ind.Loading()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "escolar_syncing",
			Help: "1 mientras haya sincronizaciones pendientes",
		}, func() float64 { return boolGauge(ind.Syncing()) }),
	)
}

// Handler handler HTTP de /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
