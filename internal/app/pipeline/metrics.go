package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyforge_pipeline_triggers_total",
		Help: "Full pipeline triggers dispatched, by plan.",
	}, []string{"plan"})

	jobTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyforge_job_triggers_total",
		Help: "Single-job triggers dispatched (retries and backfills), by job.",
	}, []string{"job"})
)
