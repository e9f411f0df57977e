package common

import "github.com/prometheus/client_golang/prometheus"

var (
	guardEnteredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_vault",
		Subsystem: "system_contract",
		Name:      "reentrancy_guard_entered_counter",
		Help:      "The total number of accepted guarded entries",
	})

	guardRejectedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "axiom_vault",
		Subsystem: "system_contract",
		Name:      "reentrancy_guard_rejected_counter",
		Help:      "The total number of rejected reentrant calls",
	})
)

func init() {
	prometheus.MustRegister(guardEnteredCounter)
	prometheus.MustRegister(guardRejectedCounter)
}
