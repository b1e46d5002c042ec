package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// POSMetrics holds the Prometheus registry served at /metrics. HTTP
// instruments are fed by middleware; business counters are fed by domain
// events, so POSMetrics subscribes to the event bus as a wildcard handler.
type POSMetrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	kotsCreated   *prometheus.CounterVec
	kotLineMoves  *prometheus.CounterVec
	kotsClosed    *prometheus.CounterVec
	salesTotal    *prometheus.CounterVec
	salesAmount   *prometheus.CounterVec
	purchases     *prometheus.CounterVec
	stockAdjusted *prometheus.CounterVec
	stockLow      prometheus.Counter
	events        *prometheus.CounterVec
}

// NewPOSMetrics creates and registers every collector on a fresh registry,
// along with the Go runtime and process collectors
func NewPOSMetrics(extra ...prometheus.Collector) *POSMetrics {
	m := &POSMetrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_http_requests_in_flight",
			Help: "HTTP requests being served",
		}),
		kotsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_kots_created_total",
			Help: "Kitchen order tickets opened by ticket type",
		}, []string{"kot_type"}),
		kotLineMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_kot_line_transitions_total",
			Help: "Ticket line status changes by target status",
		}, []string{"status"}),
		kotsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_kots_closed_total",
			Help: "Tickets that left the active state, by outcome",
		}, []string{"outcome"}),
		salesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_total",
			Help: "Bills by bill type and lifecycle event",
		}, []string{"bill_type", "event"}),
		salesAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Grand total of created bills",
		}, []string{"bill_type"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_purchases_total",
			Help: "Purchase lifecycle events",
		}, []string{"event"}),
		stockAdjusted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_stock_adjustments_total",
			Help: "Stock ledger entries by adjustment type",
		}, []string{"type"}),
		stockLow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_stock_low_alerts_total",
			Help: "Low stock alerts raised",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_domain_events_total",
			Help: "Domain events published, by type",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.httpInFlight,
		m.kotsCreated, m.kotLineMoves, m.kotsClosed,
		m.salesTotal, m.salesAmount, m.purchases,
		m.stockAdjusted, m.stockLow, m.events,
	)
	m.registry.MustRegister(extra...)
	return m
}

// Registry exposes the registry for tests and extra collectors
func (m *POSMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *POSMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RequestStarted marks a request as in flight and returns the function that
// records its outcome
func (m *POSMetrics) RequestStarted() func(method, route string, status int) {
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route string, status int) {
		m.httpInFlight.Dec()
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// EventTypes returns nil so the bus delivers every event
func (m *POSMetrics) EventTypes() []string {
	return nil
}

// Handle counts a domain event
func (m *POSMetrics) Handle(_ context.Context, event shared.DomainEvent) error {
	m.events.WithLabelValues(event.EventType()).Inc()

	switch e := event.(type) {
	case *kitchen.KOTCreatedEvent:
		m.kotsCreated.WithLabelValues(e.KOTType).Inc()
	case *kitchen.KOTItemStatusChangedEvent:
		m.kotLineMoves.WithLabelValues(string(e.To)).Inc()
	case *kitchen.KOTCompletedEvent:
		m.kotsClosed.WithLabelValues("completed").Inc()
	case *kitchen.KOTCancelledEvent:
		m.kotsClosed.WithLabelValues("cancelled").Inc()
	case *trade.SaleEvent:
		m.salesTotal.WithLabelValues(string(e.BillType), e.EventType()).Inc()
		if e.EventType() == trade.EventTypeSaleCreated {
			amount, _ := e.GrandTotal.Float64()
			m.salesAmount.WithLabelValues(string(e.BillType)).Add(amount)
		}
	case *trade.PurchaseEvent:
		m.purchases.WithLabelValues(e.EventType()).Inc()
	case *inventory.StockAdjustedEvent:
		m.stockAdjusted.WithLabelValues(string(e.Type)).Inc()
	case *inventory.StockLowEvent:
		m.stockLow.Inc()
	}
	return nil
}

var _ shared.EventHandler = (*POSMetrics)(nil)
