package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "getfit",
		Subsystem: "activities",
		Name:      "logged_total",
		Help:      "Number of activities persisted, labeled by activity type.",
	}, []string{"type"})

	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "getfit",
		Subsystem: "activities",
		Name:      "last_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity persisted to Postgres.",
	})

	usersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "getfit",
		Subsystem: "users",
		Name:      "registered_total",
		Help:      "Number of accounts created.",
	})
)

func init() {
	prometheus.MustRegister(activitiesLogged, activityPersistGauge, usersRegistered)
}

// RecordActivityLogged updates the activity counters and persistence watermark.
func RecordActivityLogged(activityType string, ts time.Time) {
	activitiesLogged.WithLabelValues(activityType).Inc()
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordUserRegistered bumps the registration counter.
func RecordUserRegistered() {
	usersRegistered.Inc()
}
