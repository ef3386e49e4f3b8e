package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamquery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamquery_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// QueriesTotal counts terminal query operations (fetch, fetchOne, ...).
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamquery_queries_total",
			Help: "Total number of executed queries",
		},
		[]string{"op", "status"},
	)
	// QueryDuration is the evaluation time of queries against the record store.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamquery_query_duration_seconds",
			Help:    "Query evaluation latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"op"},
	)
	// StoreRecords is the number of records in the store by kind.
	StoreRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "teamquery_store_records",
			Help: "Number of records held by the in-memory store",
		},
		[]string{"kind"},
	)
)

// ObserveQuery records one terminal query operation. Its signature matches
// query.Observer.
func ObserveQuery(op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	QueriesTotal.WithLabelValues(op, status).Inc()
	QueryDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetStoreSize publishes the current record counts.
func SetStoreSize(teams, members int) {
	StoreRecords.WithLabelValues("team").Set(float64(teams))
	StoreRecords.WithLabelValues("member").Set(float64(members))
}
