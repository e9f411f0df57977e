package ledger

import "github.com/prometheus/client_golang/prometheus"

var (
	commitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_vault",
		Subsystem: "ledger",
		Name:      "commit_duration_second",
		Help:      "The total latency of flush pending world state into db",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 10),
	})

	accountReadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_vault",
		Subsystem: "ledger",
		Name:      "account_read_duration",
		Help:      "The total latency of read an account from db",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})

	stateReadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_vault",
		Subsystem: "ledger",
		Name:      "state_read_duration",
		Help:      "The total latency of read a state from db",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 10),
	})

	revertCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_vault",
		Subsystem: "ledger",
		Name:      "revert_to_snapshot_counter",
		Help:      "The total number of reverted snapshots",
	})
)

func init() {
	prometheus.MustRegister(commitDuration)
	prometheus.MustRegister(accountReadDuration)
	prometheus.MustRegister(stateReadDuration)
	prometheus.MustRegister(revertCounter)
}
