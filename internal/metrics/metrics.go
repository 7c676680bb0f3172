package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking flow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	syncTotal        *prometheus.CounterVec
	draftRestores    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailstudio",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"status"}),
		syncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailstudio",
			Subsystem: "booking",
			Name:      "sync_notifications_total",
			Help:      "Total gateway sync notifications by target and outcome",
		}, []string{"target", "status"}),
		draftRestores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nailstudio",
			Subsystem: "booking",
			Name:      "draft_restores_total",
			Help:      "Total wizard draft restorations by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.syncTotal, m.draftRestores)
	return m
}

func (m *BookingMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSync(target, status string) {
	if m == nil {
		return
	}
	m.syncTotal.WithLabelValues(target, status).Inc()
}

func (m *BookingMetrics) ObserveDraftRestore(outcome string) {
	if m == nil {
		return
	}
	m.draftRestores.WithLabelValues(outcome).Inc()
}
