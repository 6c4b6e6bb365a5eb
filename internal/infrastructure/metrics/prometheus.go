// Package metrics implementa ports.PlanningMetrics con Prometheus en un registry propio.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/fulfillment-planner/internal/application/ports"
)

const namespace = "fulfillment_planner"

var _ ports.PlanningMetrics = (*Prometheus)(nil)

// Prometheus contadores e histograma del motor de planeación.
type Prometheus struct {
	registry *prometheus.Registry

	confirmations       prometheus.Counter
	confirmationLatency prometheus.Histogram
	conflicts           prometheus.Counter
	resolutions         *prometheus.CounterVec
	resolvedUnits       prometheus.Counter
	picks               prometheus.Counter
	incoming            *prometheus.CounterVec
}

// NewPrometheus registra las métricas en un registry nuevo (más las del runtime de Go).
func NewPrometheus() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_confirmed_total",
			Help:      "Órdenes de trabajo confirmadas.",
		}),
		confirmationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "work_order_confirmation_seconds",
			Help:      "Duración de la confirmación (lock, instantánea, cálculo y escritura).",
			Buckets:   prometheus.DefBuckets,
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_order_confirmation_conflicts_total",
			Help:      "Confirmaciones rechazadas por otra confirmación en curso de la misma semana.",
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shortage_resolutions_total",
			Help:      "Resoluciones de faltante por producto.",
		}, []string{"product_id"}),
		resolvedUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shortage_resolved_units_total",
			Help:      "Unidades de stock tardío sumadas por resoluciones.",
		}),
		picks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_picked_total",
			Help:      "Ítems marcados como alistados.",
		}),
		incoming: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_stock_transitions_total",
			Help:      "Transiciones de stock entrante por estado destino.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.confirmations,
		m.confirmationLatency,
		m.conflicts,
		m.resolutions,
		m.resolvedUnits,
		m.picks,
		m.incoming,
	)
	return m
}

func (m *Prometheus) WorkOrderConfirmed(elapsed time.Duration) {
	m.confirmations.Inc()
	m.confirmationLatency.Observe(elapsed.Seconds())
}

func (m *Prometheus) ConfirmationConflict() { m.conflicts.Inc() }

func (m *Prometheus) ShortageResolved(productID string, added int) {
	m.resolutions.WithLabelValues(productID).Inc()
	m.resolvedUnits.Add(float64(added))
}

func (m *Prometheus) ItemPicked() { m.picks.Inc() }

func (m *Prometheus) IncomingTransition(status string) {
	m.incoming.WithLabelValues(status).Inc()
}

// Handler endpoint de exposición para /metrics.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry para tests y colectores adicionales.
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}
