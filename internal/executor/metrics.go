package executor

import "github.com/prometheus/client_golang/prometheus"

var (
	applyTxsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_vault",
		Subsystem: "executor",
		Name:      "apply_txs_duration_second",
		Help:      "The total latency of transactions apply",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	executeBlockDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "axiom_vault",
		Subsystem: "executor",
		Name:      "execute_block_duration_second",
		Help:      "The total latency of block execute",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	})

	txCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_vault",
		Subsystem: "executor",
		Name:      "tx_counter",
		Help:      "the total number of transactions",
	})

	failedTxCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_vault",
		Subsystem: "executor",
		Name:      "failed_tx_counter",
		Help:      "the total number of reverted transactions",
	})
)

func init() {
	prometheus.MustRegister(applyTxsDuration)
	prometheus.MustRegister(executeBlockDuration)
	prometheus.MustRegister(txCounter)
	prometheus.MustRegister(failedTxCounter)
}
