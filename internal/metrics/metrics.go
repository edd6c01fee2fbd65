package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side-effect kinds
const (
	KindNotification = "notification"
	KindActivityLog  = "activity_log"
	KindEmail        = "email"
	KindRealtime     = "realtime"
)

var (
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_booking_transitions_total",
			Help: "Booking status transitions committed, by source and target status",
		},
		[]string{"from", "to"},
	)

	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_bookings_created_total",
			Help: "Bookings created together with a payment, by payment method",
		},
		[]string{"payment_method"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_side_effect_failures_total",
			Help: "Best-effort side effects that failed after the core state change committed",
		},
		[]string{"kind"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_notifications_created_total",
			Help: "Notifications persisted, by type and recipient role",
		},
		[]string{"type", "role"},
	)

	NotificationsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "estate_notifications_cleaned_total",
			Help: "Read notifications removed by the retention worker",
		},
	)
)
