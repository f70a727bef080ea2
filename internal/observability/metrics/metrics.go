package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flows.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetslot",
			Subsystem: "calendar",
			Name:      "availability_requests_total",
			Help:      "Total availability queries",
		}, []string{"status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meetslot",
			Subsystem: "calendar",
			Name:      "bookings_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "meetslot",
			Subsystem: "calendar",
			Name:      "request_latency_seconds",
			Help:      "Latency of calendar endpoints",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.bookingsTotal, m.requestLatency)
	return m
}

func (m *BookingMetrics) ObserveAvailability(status string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveLatency(route string, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(route).Observe(seconds)
}
