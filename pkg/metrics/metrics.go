package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Activity metrics
	ActivitiesRecorded *prometheus.CounterVec
	ActivitiesPruned   prometheus.Counter
	PruneLatency       prometheus.Histogram

	// Notification metrics
	NotificationsCreated *prometheus.CounterVec
	NotificationsRead    prometheus.Counter
	BroadcastFailures    prometheus.Counter
	PushDispatches       prometheus.Counter

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		ActivitiesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_recorded_total",
			Help:      "Total number of user activities recorded",
		}, []string{"activity_type"}),
		ActivitiesPruned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_pruned_total",
			Help:      "Total number of activity rows removed by retention pruning",
		}),
		PruneLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "activity_prune_duration_seconds",
			Help:      "Time spent pruning activity rows beyond the retention cap",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		NotificationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of notifications created",
		}, []string{"notification_type", "priority"}),
		NotificationsRead: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_read_total",
			Help:      "Total number of notifications marked read",
		}),
		BroadcastFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_broadcast_failures_total",
			Help:      "Total number of failed real-time notification publishes",
		}),
		PushDispatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_dispatches_total",
			Help:      "Total number of push notification dispatches attempted",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
