package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "distractiondodge_sessions_started_total",
		Help: "Sessions started, across both variants.",
	})

	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "distractiondodge_sessions_ended_total",
		Help: "Sessions ended, by end reason.",
	}, []string{"reason"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "distractiondodge_active_sessions",
		Help: "Sessions currently running or paused.",
	})

	DistractionsSpawned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "distractiondodge_distractions_spawned_total",
		Help: "Distraction stimuli spawned.",
	})

	HologramsCaught = promauto.NewCounter(prometheus.CounterOpts{
		Name: "distractiondodge_holograms_caught_total",
		Help: "Holograms caught by the visionOS circle.",
	})

	FinalScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "distractiondodge_final_score",
		Help:    "Final score distribution of completed sessions.",
		Buckets: prometheus.LinearBuckets(0, 25, 10),
	})
)
