package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	playsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "web_plays_recorded_total",
		Help: "Total number of ending plays recorded.",
	})

	ratingsUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "web_ratings_upserted_total",
		Help: "Total number of story ratings created or updated.",
	})

	reportsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "web_reports_created_total",
		Help: "Total number of story reports filed.",
	})
)
