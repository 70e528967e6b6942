package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	interviewScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantdesk",
			Name:      "interview_scheduled_total",
			Help:      "Count of interviews scheduled by mode (manual/auto).",
		},
		[]string{"mode"},
	)

	schedulingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grantdesk",
			Name:      "scheduling_conflicts_total",
			Help:      "Count of commit-time slot conflicts detected.",
		},
	)

	emptyWindows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grantdesk",
			Name:      "empty_search_windows_total",
			Help:      "Count of auto-assign attempts that found no open slot.",
		},
	)

	statusTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantdesk",
			Name:      "status_transition_total",
			Help:      "Count of schedule status transitions.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantdesk",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(interviewScheduled, schedulingConflicts, emptyWindows, statusTransition, httpRequests)
	})
}

func IncScheduled(mode string) {
	interviewScheduled.WithLabelValues(mode).Inc()
}

func IncConflict() {
	schedulingConflicts.Inc()
}

func IncEmptyWindow() {
	emptyWindows.Inc()
}

func IncStatusTransition(status string) {
	statusTransition.WithLabelValues(status).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
