package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		prompted  bool
		expected  string
		ok        bool
	}{
		{
			name:      "introduction pattern",
			utterance: "my name is John Doe",
			expected:  "John Doe",
			ok:        true,
		},
		{
			name:      "i am pattern",
			utterance: "I am Maria",
			expected:  "Maria",
			ok:        true,
		},
		{
			name:      "contraction pattern",
			utterance: "I'm Ravi Kumar",
			expected:  "Ravi Kumar",
			ok:        true,
		},
		{
			name:      "name cut at connective",
			utterance: "my name is John and I am 30",
			expected:  "John",
			ok:        true,
		},
		{
			name:      "bare name only when prompted",
			utterance: "John",
			prompted:  true,
			expected:  "John",
			ok:        true,
		},
		{
			name:      "bare name not prompted",
			utterance: "John",
			ok:        false,
		},
		{
			name:      "short sentence without pattern not treated as name",
			utterance: "I need food urgently",
			ok:        false,
		},
		{
			name:      "digits rejected by fallback",
			utterance: "apartment 4B",
			prompted:  true,
			ok:        false,
		},
		{
			name:      "long utterance rejected by fallback",
			utterance: "well it is a bit of a long story actually",
			prompted:  true,
			ok:        false,
		},
		{
			name:      "empty utterance",
			utterance: "   ",
			prompted:  true,
			ok:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Name(tt.utterance, tt.prompted)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestAge(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		expected  int
		ok        bool
	}{
		{name: "embedded age", utterance: "I am 25 years old", expected: 25, ok: true},
		{name: "bare number", utterance: "30", expected: 30, ok: true},
		{name: "out of range", utterance: "I am 200 years old", ok: false},
		{name: "zero", utterance: "0", ok: false},
		{name: "no number", utterance: "none of your business", ok: false},
		{name: "first in-range token wins", utterance: "flat 500, I'm 42", expected: 42, ok: true},
		{name: "boundary high", utterance: "120", expected: 120, ok: true},
		{name: "empty", utterance: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Age(tt.utterance)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		prompted  bool
		expected  string
		ok        bool
	}{
		{name: "in pattern", utterance: "I live in Springfield", expected: "Springfield", ok: true},
		{name: "near pattern", utterance: "near the central market", expected: "the central market", ok: true},
		{name: "fallback when prompted", utterance: "Downtown", prompted: true, expected: "Downtown", ok: true},
		{name: "no fallback unprompted", utterance: "Downtown", ok: false},
		{name: "empty when prompted", utterance: "  ", prompted: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Location(tt.utterance, tt.prompted)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestFoodRequest(t *testing.T) {
	got, ok := FoodRequest("Rice and beans for a family of four", true)
	assert.True(t, ok)
	assert.Equal(t, "Rice and beans for a family of four", got)

	_, ok = FoodRequest("Rice and beans", false)
	assert.False(t, ok)

	_, ok = FoodRequest("   ", true)
	assert.False(t, ok)
}
