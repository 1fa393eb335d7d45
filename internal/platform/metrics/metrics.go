// Package metrics holds the Prometheus instruments for the business
// operations. Counters are registered on the default registry and served
// from the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AdvancesRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_advances_requested_total",
		Help: "Number of advance requests submitted.",
	})
	AdvancesApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_advances_approved_total",
		Help: "Number of advances approved into custody.",
	})
	AdvancesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_advances_rejected_total",
		Help: "Number of advance requests rejected.",
	})
	AdvancesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_advances_settled_total",
		Help: "Number of advances settled and closed.",
	})

	ExpensesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_expenses_submitted_total",
		Help: "Number of expenses submitted against advances.",
	})
	ExpensesApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_expenses_approved_total",
		Help: "Number of expenses approved and debited.",
	})
	ExpensesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_expenses_rejected_total",
		Help: "Number of expenses rejected.",
	})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_notifications_emitted_total",
		Help: "Number of notifications written for recipients.",
	})
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petrotec_notification_failures_total",
		Help: "Number of notification writes that failed and were dropped.",
	})
)
