package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	CartMutations    *prometheus.CounterVec
	ImageResolutions *prometheus.CounterVec
	Checkouts        *prometheus.CounterVec
	OrdersPlaced     *prometheus.CounterVec
	PlacementSec     prometheus.Histogram
	BackendErrors    *prometheus.CounterVec
	SessionsActive   prometheus.Gauge
	CartItems        prometheus.Gauge
	OrderBacklog     prometheus.GaugeFunc
}

// NewRegistry builds a registry with every collector registered. backlog
// feeds the order backlog gauge and may be nil.
func NewRegistry(backlog func() float64) *Registry {
	r := prometheus.NewRegistry()
	cart := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzeria_cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	images := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzeria_image_resolutions_total",
		Help: "Image resolutions by the step that produced the asset.",
	}, []string{"step"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzeria_checkouts_total",
		Help: "Checkout submissions by result.",
	}, []string{"result"})
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzeria_orders_placed_total",
		Help: "Order placements by result.",
	}, []string{"result"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pizzeria_order_placement_seconds",
		Buckets: prometheus.DefBuckets,
	})
	backend := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzeria_backend_errors_total",
		Help: "Failed calls to the hosted backend by operation.",
	}, []string{"op"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{Name: "pizzeria_sessions_active"})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pizzeria_cart_items",
		Help: "Items across the carts of live sessions.",
	})
	if backlog == nil {
		backlog = func() float64 { return 0 }
	}
	backlogGauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: "pizzeria_order_backlog"}, backlog)

	r.MustRegister(cart, images, checkouts, placed, latency, backend, sessions, cartItems, backlogGauge)
	return &Registry{
		reg:              r,
		CartMutations:    cart,
		ImageResolutions: images,
		Checkouts:        checkouts,
		OrdersPlaced:     placed,
		PlacementSec:     latency,
		BackendErrors:    backend,
		SessionsActive:   sessions,
		CartItems:        cartItems,
		OrderBacklog:     backlogGauge,
	}
}

// Metrics is the process-wide registry. Tests may replace it.
var Metrics = NewRegistry(nil)

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
