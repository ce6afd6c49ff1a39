package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "praisetree", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "praisetree", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "praisetree", Name: "handler_errors_total", Help: "Handler errors (5xx and recovered panics)",
	})
	PraisePosts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "praisetree", Name: "praise_posts_total", Help: "Accepted praise posts",
	})
	StageUps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "praisetree", Name: "stage_ups_total", Help: "Tree growth stage changes by reached stage",
	}, []string{"stage"})
	LoadWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "praisetree", Name: "catalog_load_warnings_total", Help: "Field-level problems found while loading schools",
	})
	CatalogSchools = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "praisetree", Name: "catalog_schools", Help: "Schools in the catalog",
	})
	CatalogPoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "praisetree", Name: "catalog_praise_points", Help: "Sum of praise points over all schools",
	})
	CatalogPosts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "praisetree", Name: "catalog_posts", Help: "Praise posts held in memory",
	})
	SchoolsByStage = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "praisetree", Name: "schools_by_stage", Help: "Schools per tree growth stage",
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration, HandlerErrors,
		PraisePosts, StageUps, LoadWarnings,
		CatalogSchools, CatalogPoints, CatalogPosts, SchoolsByStage,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveStageUp(stage int) {
	StageUps.WithLabelValues(strconv.Itoa(stage)).Inc()
}

func SetCatalog(schools, posts, points int, byStage map[int]int) {
	CatalogSchools.Set(float64(schools))
	CatalogPosts.Set(float64(posts))
	CatalogPoints.Set(float64(points))
	for stage, n := range byStage {
		SchoolsByStage.WithLabelValues(strconv.Itoa(stage)).Set(float64(n))
	}
}
