package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const prometheusMetricNamespace = "awskit"

const (
	checkResultSuccess = "success"
	checkResultFail    = "fail"
	checkResultError   = "error"
	checkResultEmpty   = "no_clusters"
)

var (
	checksTotalCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "emr_checks_total",
			Help:      "Number of EMR failure checks by result.",
		},
		[]string{"result"},
	)

	notificationsFailedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "emr_check_notifications_failed_total",
			Help:      "Number of failure notifications that could not be delivered.",
		},
	)

	checkDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "emr_check_duration_seconds",
			Help:      "Duration of an EMR failure check.",
			Buckets:   []float64{0.5, 1, 5, 15, 60},
		},
	)

	lastCheckTimestampGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: prometheusMetricNamespace,
			Name:      "emr_check_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed EMR failure check.",
		},
	)
)

func init() {
	prometheus.MustRegister(checksTotalCounter)
	prometheus.MustRegister(notificationsFailedCounter)
	prometheus.MustRegister(checkDurationHistogram)
	prometheus.MustRegister(lastCheckTimestampGauge)
}
