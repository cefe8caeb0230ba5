package gate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var DecisionsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quota_gate_decisions_total",
	Help: "Count of quota gate decisions by action and outcome",
}, []string{"action", "outcome"})

var ConsumeFailuresCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "quota_credit_consume_failures_total",
	Help: "Count of credit consumptions that failed after the balance was seen positive",
})
