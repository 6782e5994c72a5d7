package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AppliedEditCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splayedit_stream_applied_edit_count",
			Help: "Total number of edits applied from the edit topic",
		},
	)
	RejectedEditCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splayedit_stream_rejected_edit_count",
			Help: "Total number of edit records skipped, by reason",
		},
		[]string{"reason"},
	)
	FetchErrorCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splayedit_stream_fetch_error_count",
			Help: "Total number of fetch errors reported while polling the edit topic",
		},
	)
	SnapshotCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splayedit_stream_snapshot_count",
			Help: "Total number of sequence snapshots published",
		},
	)
	SnapshotFailureCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splayedit_stream_snapshot_failure_count",
			Help: "Total number of sequence snapshots that failed to publish",
		},
	)
)
