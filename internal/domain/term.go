package domain

import (
	"regexp"
	"strings"
)

// MaxTermWords is the maximum number of whitespace-separated tokens a term may have.
const MaxTermWords = 4

// termPattern accepts an ASCII letter followed by up to 60 letters,
// whitespace, apostrophes or hyphens.
var termPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z\s'-]{0,60}$`)

// Term is a validated word or short phrase submitted for explanation.
type Term string

// NewTerm validates a raw message as a term candidate. The input is
// trimmed first; rejection carries a user-facing prompt, no external
// call is ever made for a rejected term.
func NewTerm(raw string) (Term, error) {
	trimmed := strings.TrimSpace(raw)
	if !termPattern.MatchString(trimmed) {
		return "", NewInvalidTermError()
	}
	if len(strings.Fields(trimmed)) > MaxTermWords {
		return "", NewInvalidTermError()
	}
	return Term(trimmed), nil
}

func (t Term) String() string {
	return string(t)
}

// Normalized returns the form under which a term is persisted and
// looked up, so case variants resolve to the same saved record.
func (t Term) Normalized() string {
	return strings.ToLower(string(t))
}

// NormalizeTerm lower-cases an already-validated term string.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
