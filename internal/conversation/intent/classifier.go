// Package intent classifies the urgency of a food-assistance request from
// the first user message of a conversation.
package intent

import "strings"

// Intent is the urgency category assigned to a conversation.
type Intent string

const (
	Immediate    Intent = "immediate"
	Scheduled    Intent = "scheduled"
	NGOReferral  Intent = "ngo_referral"
	Unclassified Intent = "unclassified"
)

// AssistanceType maps an intent to the handling path recorded on a
// dispatched request. Unclassified conversations are handled as immediate.
func (i Intent) AssistanceType() string {
	if i == Unclassified || i == "" {
		return string(Immediate)
	}
	return string(i)
}

// rule pairs an intent with the keywords that select it.
type rule struct {
	intent   Intent
	keywords []string
}

// rules is the priority-ordered classification table. An utterance matching
// more than one keyword set resolves to the first matching rule, so
// immediate wins over scheduled, which wins over ngo_referral.
var rules = []rule{
	{Immediate, []string{"hungry", "starving", "need food now", "urgent", "immediate", "emergency", "asap"}},
	{Scheduled, []string{"later", "tomorrow", "next week", "schedule", "plan"}},
	{NGOReferral, []string{"ngo", "referral", "support", "help", "assistance", "organization"}},
}

// Classify assigns an urgency category to an utterance using
// case-insensitive keyword containment. It is a total function: any input,
// including the empty string, yields an intent, with Unclassified as the
// default when no keyword matches.
func Classify(utterance string) Intent {
	text := strings.ToLower(utterance)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.intent
			}
		}
	}
	return Unclassified
}
