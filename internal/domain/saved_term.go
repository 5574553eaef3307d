package domain

import "time"

// SavedTerm is a durable record of a term a user chose to keep.
// (UserID, Term) is unique; Term is stored lower-cased.
type SavedTerm struct {
	ID          string
	UserID      int64
	Term        string
	Explanation string
	Examples    []string
	CreatedAt   time.Time
}

// QuizAttempt is an append-only audit record of a graded quiz answer.
type QuizAttempt struct {
	ID           string
	UserID       int64
	Term         string
	ChosenIndex  int
	CorrectIndex int
	CreatedAt    time.Time
}
