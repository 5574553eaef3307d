package domain

import (
	"fmt"
	"strings"
)

// ExampleCount is the number of example sentences an explanation carries.
const ExampleCount = 10

// DistractorCount is the number of incorrect options in a quiz.
const DistractorCount = 2

// Explanation is the structured result produced by the explanation
// generator for a single term.
type Explanation struct {
	Term              string   `json:"term"`
	SimpleExplanation string   `json:"simple_explanation"`
	Examples          []string `json:"examples"`
}

// Validate checks the generator's output against the response schema:
// exactly ten examples, each containing the term as a literal substring.
// A violation is a generation error, not an internal one.
func (e *Explanation) Validate(term string) error {
	if strings.TrimSpace(e.SimpleExplanation) == "" {
		return NewGenerationError(fmt.Errorf("empty explanation for %q", term))
	}
	if len(e.Examples) != ExampleCount {
		return NewGenerationError(fmt.Errorf("expected %d examples, got %d", ExampleCount, len(e.Examples)))
	}
	for i, example := range e.Examples {
		if !strings.Contains(example, term) {
			return NewGenerationError(fmt.Errorf("example %d does not contain the term %q", i+1, term))
		}
	}
	return nil
}

// FallbackDistractors is the fixed pair substituted whenever distractor
// generation fails or returns malformed output. It is identical across
// all call sites.
func FallbackDistractors() []string {
	return []string{
		"It describes something very expensive and luxurious.",
		"It means to stop doing something for a short time.",
	}
}

// DistractorsOrFallback applies the caller-side fallback policy: the raw
// generator output must hold exactly two distinct non-empty values after
// trimming, otherwise the fixed fallback pair is used.
func DistractorsOrFallback(raw []string) []string {
	if len(raw) != DistractorCount {
		return FallbackDistractors()
	}
	first := strings.TrimSpace(raw[0])
	second := strings.TrimSpace(raw[1])
	if first == "" || second == "" || first == second {
		return FallbackDistractors()
	}
	return []string{first, second}
}
