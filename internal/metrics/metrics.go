package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Searches         *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	RequestSeconds   *prometheus.HistogramVec
	PlacesReturned   *prometheus.CounterVec
	SearchesInFlight prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Searches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "citylens_searches_total",
			Help: "Total number of city searches by outcome.",
		}, []string{"status"}),
		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "citylens_upstream_errors_total",
			Help: "Total number of errors received from upstream APIs.",
		}, []string{"upstream"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citylens_upstream_request_duration_seconds",
			Help:    "Duration of requests to upstream APIs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"upstream"}),
		PlacesReturned: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "citylens_places_returned_total",
			Help: "Total number of places returned per category.",
		}, []string{"category"}),
		SearchesInFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "citylens_searches_in_flight",
			Help: "Current number of searches being processed.",
		}),
	}
}
