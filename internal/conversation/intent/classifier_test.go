package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		expected  Intent
	}{
		{
			name:      "urgent hunger",
			utterance: "I'm hungry and need food now",
			expected:  Immediate,
		},
		{
			name:      "scheduled request",
			utterance: "I need food tomorrow, please schedule it",
			expected:  Scheduled,
		},
		{
			name:      "ngo referral",
			utterance: "Can an NGO help me?",
			expected:  NGOReferral,
		},
		{
			name:      "no keywords",
			utterance: "hello",
			expected:  Unclassified,
		},
		{
			name:      "empty utterance",
			utterance: "",
			expected:  Unclassified,
		},
		{
			name:      "uppercase keywords",
			utterance: "THIS IS AN EMERGENCY",
			expected:  Immediate,
		},
		{
			name:      "immediate wins over ngo",
			utterance: "urgent, can an ngo help?",
			expected:  Immediate,
		},
		{
			name:      "immediate wins over scheduled",
			utterance: "I'm starving, maybe deliver tomorrow",
			expected:  Immediate,
		},
		{
			name:      "scheduled wins over ngo",
			utterance: "plan a referral for me",
			expected:  Scheduled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.utterance))
		})
	}
}

func TestAssistanceType(t *testing.T) {
	assert.Equal(t, "immediate", Immediate.AssistanceType())
	assert.Equal(t, "scheduled", Scheduled.AssistanceType())
	assert.Equal(t, "ngo_referral", NGOReferral.AssistanceType())
	// Unclassified requests are handled on the immediate path.
	assert.Equal(t, "immediate", Unclassified.AssistanceType())
	assert.Equal(t, "immediate", Intent("").AssistanceType())
}
