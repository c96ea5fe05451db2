package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "wizardvm"

var (
	metricExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "executions_total",
			Help:      "Programs executed, by outcome (ok or error kind)",
		},
		[]string{"outcome"},
	)

	metricInstructions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "instructions_total",
			Help:      "Instructions completed across all executions",
		},
	)

	metricProgramWords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "program_words",
			Help:      "Length of submitted programs in words",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(
		metricExecutions,
		metricInstructions,
		metricProgramWords,
	)
}

func observeExecution(words, steps int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = outcomeLabel(err)
	}
	metricExecutions.WithLabelValues(outcome).Inc()
	metricInstructions.Add(float64(steps))
	metricProgramWords.Observe(float64(words))
}
