// Package metrics exposes Prometheus collectors for the map server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofieldmap_requests_total",
		Help: "Total number of HTTP requests by route and status code",
	}, []string{"route", "code"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geofieldmap_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	FeaturesBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofieldmap_features_built_total",
		Help: "Total GeoJSON features built from geofield values",
	})
	ItemsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofieldmap_items_dropped_total",
		Help: "Total geofield values skipped as unrecognized or unparseable",
	})
	APIKeyMissing = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geofieldmap_api_key_missing",
		Help: "1 when no Google Maps API key could be resolved",
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDurationMs,
		FeaturesBuiltTotal,
		ItemsDroppedTotal,
		APIKeyMissing,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one handled request.
func ObserveRequest(route string, code int, d time.Duration) {
	RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	RequestDurationMs.WithLabelValues(route).Observe(float64(d.Microseconds()) / 1000)
}

// ObserveBuild records the outcome of one feature build.
func ObserveBuild(items, features int) {
	FeaturesBuiltTotal.Add(float64(features))
	if dropped := items - features; dropped > 0 {
		ItemsDroppedTotal.Add(float64(dropped))
	}
}
