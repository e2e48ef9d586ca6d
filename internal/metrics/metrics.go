// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BillsPublished counts bills published by hosts.
	BillsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cheq_bills_published_total",
		Help: "Number of bills published.",
	})

	// ClaimsWon counts items newly claimed through commits.
	ClaimsWon = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cheq_claims_won_total",
		Help: "Number of items newly claimed.",
	})

	// ClaimConflicts counts items that lost a claim race.
	ClaimConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cheq_claim_conflicts_total",
		Help: "Number of claim attempts that lost to another claimant.",
	})

	// CommitRejections counts commits rejected before any write.
	CommitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cheq_commit_rejections_total",
		Help: "Number of claim commits rejected by validation.",
	})

	// NotifierSubscribers tracks currently connected change-feed subscribers.
	NotifierSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cheq_notifier_subscribers",
		Help: "Currently subscribed change-feed listeners.",
	})
)
