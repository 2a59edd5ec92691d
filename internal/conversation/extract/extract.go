// Package extract pulls structured field values out of free-form user
// utterances with a small ordered set of deterministic matchers per field.
// Every extractor is total: malformed input yields (zero value, false), and
// the caller re-asks the question.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// maxNameWords bounds the short-utterance fallback for names: an
	// answer to a direct name question is taken verbatim when it has at
	// most this many words.
	maxNameWords = 4

	minAge = 1
	maxAge = 120
)

var (
	namePattern = regexp.MustCompile(
		`(?i)\b(?:my name is|name is|i am|i'm|i’m|called|this is)\s+([a-zA-Z]+(?:\s+[a-zA-Z]+){0,2})`)
	locationPattern = regexp.MustCompile(
		`(?i)\b(?:i live in|i am in|i am at|located at|in|at|near)\s+(.+)`)
	integerPattern = regexp.MustCompile(`\b\d+\b`)
	digitPattern   = regexp.MustCompile(`\d`)
)

// Name extracts a person name from a self-introduction ("my name is X",
// "I am X", "I'm X"). When prompted is true — the name question was just
// asked — a short, digit-free utterance is accepted verbatim, because users
// frequently answer "what is your name?" with just the name.
func Name(utterance string, prompted bool) (string, bool) {
	if m := namePattern.FindStringSubmatch(utterance); m != nil {
		if name := cutAtConnective(strings.TrimSpace(m[1])); name != "" {
			return name, true
		}
	}

	if !prompted {
		return "", false
	}

	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" || digitPattern.MatchString(trimmed) {
		return "", false
	}
	if len(strings.Fields(trimmed)) <= maxNameWords {
		return trimTrailingPunct(trimmed), true
	}
	return "", false
}

// Age extracts the first integer token within 1-120. Utterances whose only
// integers fall outside that range yield no value.
func Age(utterance string) (int, bool) {
	for _, tok := range integerPattern.FindAllString(utterance, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if n >= minAge && n <= maxAge {
			return n, true
		}
	}
	return 0, false
}

// Location extracts a place from "in X" / "at X" / "near X" phrasings. When
// prompted is true — the location question was just asked — the whole
// utterance is accepted as the location if no pattern matches.
func Location(utterance string, prompted bool) (string, bool) {
	if m := locationPattern.FindStringSubmatch(utterance); m != nil {
		if loc := trimTrailingPunct(strings.TrimSpace(m[1])); loc != "" {
			return loc, true
		}
	}

	if !prompted {
		return "", false
	}

	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// FoodRequest accepts the whole utterance verbatim once the food-need
// question has been asked. No validation beyond non-emptiness: the field is
// free text describing what the person needs.
func FoodRequest(utterance string, prompted bool) (string, bool) {
	if !prompted {
		return "", false
	}
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func trimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,!?")
}

// cutAtConnective drops everything from a joining word onward, so
// "John and I" from "my name is John and I am 30" yields just "John".
func cutAtConnective(s string) string {
	fields := strings.Fields(s)
	for i, w := range fields {
		switch strings.ToLower(w) {
		case "and", "but", "or":
			return strings.Join(fields[:i], " ")
		}
	}
	return s
}
