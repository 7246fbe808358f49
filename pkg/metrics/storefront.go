package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, catalog, checkout, and HTTP activity. A nil *Storefront is a valid
// no-op recorder.
type Storefront struct {
	cartOps         *prometheus.CounterVec
	persistFailures prometheus.Counter
	catalogQueries  *prometheus.CounterVec
	ordersPlaced    prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshot writes that failed to reach storage.",
	})
	catalogQueries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Catalog queries by sort order.",
	}, []string{"sort"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Simulated orders confirmed at checkout.",
	})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(cartOps, persistFailures, catalogQueries, ordersPlaced, httpDuration)
	return &Storefront{
		cartOps:         cartOps,
		persistFailures: persistFailures,
		catalogQueries:  catalogQueries,
		ordersPlaced:    ordersPlaced,
		httpDuration:    httpDuration,
	}
}

func (s *Storefront) IncCartOperation(op string) {
	if s == nil || s.cartOps == nil {
		return
	}
	s.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) IncPersistFailure() {
	if s == nil || s.persistFailures == nil {
		return
	}
	s.persistFailures.Inc()
}

func (s *Storefront) IncCatalogQuery(sort string) {
	if s == nil || s.catalogQueries == nil {
		return
	}
	s.catalogQueries.WithLabelValues(normalizeLabel(sort)).Inc()
}

func (s *Storefront) IncOrderPlaced() {
	if s == nil || s.ordersPlaced == nil {
		return
	}
	s.ordersPlaced.Inc()
}

// ObserveRequest records the latency of a finished HTTP request.
func (s *Storefront) ObserveRequest(method, route string, status int, duration time.Duration) {
	if s == nil || s.httpDuration == nil {
		return
	}
	s.httpDuration.
		WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).
		Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
