package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит Prometheus-коллекторы удалённого доступа.
type Metrics struct {
	Requests        *prometheus.CounterVec
	DurationSeconds *prometheus.HistogramVec
	TokenRefreshes  prometheus.Counter
	LockedRejects   prometheus.Counter
}

// NewMetrics регистрирует и возвращает коллекторы клиента.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_client_requests_total",
			Help: "Total number of backend requests by method and outcome",
		}, []string{"method", "outcome"}),
		DurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_client_request_duration_seconds",
			Help:    "Duration of backend requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		TokenRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_client_token_refreshes_total",
			Help: "Total number of access token refresh attempts",
		}),
		LockedRejects: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_client_locked_rejects_total",
			Help: "Total number of mutations rejected client-side due to portal lock",
		}),
	}
}
