package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for CommandsProcessed.
const (
	OutcomePosted             = "posted"
	OutcomeNeedsClarification = "needs_clarification"
	OutcomeNoItems            = "no_items"
	OutcomeProductNotFound    = "product_not_found"
	OutcomeError              = "error"
)

var (
	CommandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vyapaar_agent_commands_total",
		Help: "Agent commands processed, by terminal outcome.",
	}, []string{"outcome"})

	InterpreterFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vyapaar_interpreter_fallbacks_total",
		Help: "Commands where the remote interpreter failed and local parsing took over.",
	})

	TransactionsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vyapaar_transactions_posted_total",
		Help: "Ledger transactions durably posted.",
	})
)
