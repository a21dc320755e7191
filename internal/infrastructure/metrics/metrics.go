// Package metrics expone los contadores del motor de inventario en Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

const namespace = "inventory"

var _ inventory.Metrics = (*Inventory)(nil)

// Inventory implementa inventory.Metrics con contadores Prometheus.
type Inventory struct {
	movements *prometheus.CounterVec
	received  prometheus.Counter
	importRow *prometheus.CounterVec
	drift     prometheus.Counter
}

// NewRegistry crea un registro propio con los colectores de proceso y runtime de Go.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewInventory registra los contadores en reg.
func NewInventory(reg prometheus.Registerer) *Inventory {
	f := promauto.With(reg)
	return &Inventory{
		movements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Filas insertadas en el libro de stock, por tipo de movimiento.",
		}, []string{"movement_type"}),
		received: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_received_total",
			Help:      "Artículos serializados recibidos.",
		}),
		importRow: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Filas procesadas por la importación masiva, por resultado.",
		}, []string{"result"}),
		drift: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_drift_total",
			Help:      "Desviaciones contador/libro detectadas por la reconciliación.",
		}),
	}
}

func (m *Inventory) MovementRecorded(t entity.MovementType) {
	m.movements.WithLabelValues(string(t)).Inc()
}

func (m *Inventory) ItemsReceived(n int) {
	if n > 0 {
		m.received.Add(float64(n))
	}
}

func (m *Inventory) ImportRow(result string) {
	m.importRow.WithLabelValues(result).Inc()
}

func (m *Inventory) ReconcileDrift(n int) {
	if n > 0 {
		m.drift.Add(float64(n))
	}
}

// Handler sirve las métricas del registro en formato de exposición de Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
