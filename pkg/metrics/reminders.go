package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReminderMetrics counts reminder check outcomes.
type ReminderMetrics struct {
	sent       prometheus.Counter
	suppressed *prometheus.CounterVec
}

// NewReminderMetrics registers reminder counters on the provided registerer.
func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	if reg == nil {
		return &ReminderMetrics{}
	}
	sent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminder summaries handed to the notification boundary.",
	})
	suppressed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_suppressed_total",
		Help: "Reminder checks that ended without a delivery.",
	}, []string{"reason"})
	reg.MustRegister(sent, suppressed)
	return &ReminderMetrics{sent: sent, suppressed: suppressed}
}

// IncSent records a delivered summary.
func (r *ReminderMetrics) IncSent() {
	if r == nil || r.sent == nil {
		return
	}
	r.sent.Inc()
}

// IncSuppressed records a check that did not deliver, labeled by reason
// (already_checked, outside_window, quiet_hours, weekend_pause, empty,
// evaluation_error).
func (r *ReminderMetrics) IncSuppressed(reason string) {
	if r == nil || r.suppressed == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	r.suppressed.WithLabelValues(reason).Inc()
}
