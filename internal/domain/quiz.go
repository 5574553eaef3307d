package domain

import (
	"math/rand"
	"strings"
)

// QuizOptionCount is the number of options presented per quiz.
const QuizOptionCount = 1 + DistractorCount

// QuizInstance is a transient multiple-choice question. It is never
// persisted; the option order and correct index travel inside the
// interaction tokens attached to each option.
type QuizInstance struct {
	Term         string
	Options      []string
	CorrectIndex int
}

// NewQuizInstance builds a quiz from the stored explanation and two
// distractors, shuffles the options with a uniform permutation and
// records where the correct one landed.
func NewQuizInstance(term, correct string, distractors []string, rng *rand.Rand) *QuizInstance {
	correct = strings.TrimSpace(correct)
	options := make([]string, 0, QuizOptionCount)
	options = append(options, correct)
	options = append(options, distractors...)

	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, option := range options {
		if option == correct {
			correctIndex = i
			break
		}
	}

	return &QuizInstance{
		Term:         term,
		Options:      options,
		CorrectIndex: correctIndex,
	}
}

// GradeResult is the outcome of grading a submitted answer.
type GradeResult struct {
	Correct       bool
	CorrectNumber int // 1-based number of the correct option
}

// Grade compares a chosen option index against the correct one.
func Grade(chosenIndex, correctIndex int) GradeResult {
	return GradeResult{
		Correct:       chosenIndex == correctIndex,
		CorrectNumber: correctIndex + 1,
	}
}
