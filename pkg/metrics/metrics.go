// Package metrics exports board events as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-board/components/board"
)

// Telemetry implements board.Telemetry on a Prometheus registry.
type Telemetry struct {
	registry *prometheus.Registry

	Events          *prometheus.CounterVec
	ComponentErrors *prometheus.CounterVec
	ResizeWidth     *prometheus.HistogramVec
	Mounted         prometheus.Gauge
}

var _ board.Telemetry = (*Telemetry)(nil)

// New registers the board metrics on a fresh registry.
func New() *Telemetry {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the board metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Telemetry {
	factory := promauto.With(reg)
	return &Telemetry{
		registry: reg,
		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "board",
				Subsystem: "events",
				Name:      "total",
				Help:      "Board events by node kind and event type",
			},
			[]string{"kind", "event"},
		),
		ComponentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "board",
				Subsystem: "component",
				Name:      "errors_total",
				Help:      "Component load and render failures",
			},
			[]string{"component_type"},
		),
		ResizeWidth: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "board",
				Subsystem: "resize",
				Name:      "width_pixels",
				Help:      "Effective width after a resize",
				Buckets:   prometheus.LinearBuckets(100, 100, 12),
			},
			[]string{"kind"},
		),
		Mounted: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "board",
				Subsystem: "component",
				Name:      "mounted",
				Help:      "Components currently mounted",
			},
		),
	}
}

// Record maps a "board.<kind>.<type>" event onto the metrics.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	parts := strings.SplitN(event, ".", 3)
	if len(parts) != 3 || parts[0] != "board" {
		return
	}
	kind, typ := parts[1], parts[2]
	t.Events.WithLabelValues(kind, typ).Inc()

	switch board.EventType(typ) {
	case board.EventError:
		componentType, _ := payload["component_type"].(string)
		t.ComponentErrors.WithLabelValues(componentType).Inc()
	case board.EventResize:
		if w, ok := payload["width"].(float64); ok {
			t.ResizeWidth.WithLabelValues(kind).Observe(w)
		}
	case board.EventMount:
		t.Mounted.Inc()
	case board.EventUnmount:
		t.Mounted.Dec()
	}
}

// Registry returns the backing registry.
func (t *Telemetry) Registry() *prometheus.Registry { return t.registry }

// Handler serves the registry in the Prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
