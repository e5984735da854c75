package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the app definition. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	moduleCacheHits    prometheus.Counter
	moduleCacheMisses  prometheus.Counter
	moduleLoads        *prometheus.CounterVec
	moduleReloads      prometheus.Counter
	manifestRecomputes prometheus.Counter
	manifestRoutes     prometheus.Gauge
	routeRequests      *prometheus.CounterVec
}

func New(registry prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		moduleCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_cache_hits_total",
			Help:      "Module cache lookups that reused an existing component and loader",
		}),
		moduleCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_cache_misses_total",
			Help:      "Module cache lookups that built a new component and loader",
		}),
		moduleLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_loads_total",
			Help:      "Module evaluations by result",
		}, []string{"result"}),
		moduleReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_reloads_total",
			Help:      "Module reloads pushed to subscribers after a file change",
		}),
		manifestRecomputes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manifest_recomputes_total",
			Help:      "Manifest snapshots computed from the routes directory",
		}),
		manifestRoutes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "manifest_routes",
			Help:      "Routes in the current manifest snapshot, home and error routes included",
		}),
		routeRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_requests_total",
			Help:      "Requests served by the assembled router",
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.moduleCacheHits.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.moduleCacheMisses.Inc()
	}
}

func (m *Metrics) ModuleLoaded(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.moduleLoads.WithLabelValues(result).Inc()
}

func (m *Metrics) ModuleReloaded() {
	if m != nil {
		m.moduleReloads.Inc()
	}
}

func (m *Metrics) ManifestComputed(routes int) {
	if m == nil {
		return
	}
	m.manifestRecomputes.Inc()
	m.manifestRoutes.Set(float64(routes))
}

func (m *Metrics) RouteServed(route string, status int) {
	if m == nil {
		return
	}
	m.routeRequests.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
