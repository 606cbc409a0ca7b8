package lib

import "github.com/prometheus/client_golang/prometheus"

var (
	BookingsLocked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hrc",
		Name:      "bookings_locked_total",
		Help:      "Slots locked by guests.",
	})
	BookingsConfirmed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrc",
		Name:      "bookings_confirmed_total",
		Help:      "Bookings confirmed, by channel.",
	}, []string{"channel"})
	BookingsExpired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrc",
		Name:      "bookings_expired_total",
		Help:      "Locked bookings moved to expired, by cause.",
	}, []string{"cause"})
	BookingsPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hrc",
		Name:      "bookings_purged_total",
		Help:      "Expired bookings removed after the retention window.",
	})
	PaymentWebhooks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hrc",
		Name:      "payment_webhooks_total",
		Help:      "Payment webhooks received, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(BookingsLocked, BookingsConfirmed, BookingsExpired, BookingsPurged, PaymentWebhooks)
}
