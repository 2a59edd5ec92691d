package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConversationTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Total number of conversation turns processed, by stage",
		},
		[]string{"stage"},
	)

	IntentClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_intent_classified_total",
			Help: "Total number of intents classified, by intent",
		},
		[]string{"intent"},
	)

	ExtractionMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_extraction_misses_total",
			Help: "Total number of field extraction misses that caused a re-prompt",
		},
		[]string{"field"},
	)

	FulfillmentDispatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fulfillment_dispatches_total",
			Help: "Total number of fulfillment dispatch attempts",
		},
	)

	FulfillmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_failures_total",
			Help: "Total number of fulfillment failures, by step",
		},
		[]string{"step"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "conversation_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"stage"},
	)
)
