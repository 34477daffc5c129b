package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storiesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_stories_created_total",
		Help: "Total number of stories created.",
	})

	pagesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_pages_created_total",
		Help: "Total number of pages created.",
	})

	choicesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "content_choices_created_total",
		Help: "Total number of choices created.",
	})
)
