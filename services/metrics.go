package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tournamentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerclub_tournaments_created_total",
		Help: "Tournaments registered together with their ledger.",
	})
	eliminationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerclub_eliminations_recorded_total",
		Help: "Eliminations written to a ledger.",
	})
	bountiesClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerclub_bounties_claimed_total",
		Help: "Bounty points awarded to eliminators.",
	})
	rankingImports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerclub_ranking_imports_total",
		Help: "General ranking tables imported.",
	})
	operationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerclub_operation_failures_total",
		Help: "Core operations that returned an error, by operation.",
	}, []string{"operation"})
	snapshotUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerclub_snapshot_uploads_total",
		Help: "Snapshot files uploaded to object storage, by result.",
	}, []string{"result"})
)
