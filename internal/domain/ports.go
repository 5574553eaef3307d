package domain

import "context"

// ExplanationService is the contract required from the external
// explanation generator. Explain must return exactly ExampleCount
// examples, each containing the term literally; Distract must return
// DistractorCount plausible-but-wrong explanations. Non-conforming
// responses surface as GENERATION_FAILED errors.
type ExplanationService interface {
	Explain(ctx context.Context, term string) (*Explanation, error)
	Distract(ctx context.Context, term, correctExplanation string) ([]string, error)
}

// SavedTermRepository persists a user's saved terms. Save must rely on
// the store's (user_id, term) uniqueness, not an application-level
// check-then-write, and report a duplicate as an ALREADY_SAVED error.
type SavedTermRepository interface {
	Save(ctx context.Context, term *SavedTerm) error
	// Get returns (nil, nil) when the term is not saved for this user.
	Get(ctx context.Context, userID int64, term string) (*SavedTerm, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]SavedTerm, error)
	Count(ctx context.Context, userID int64) (int, error)
}

// QuizAttemptRepository appends quiz attempt audit records.
type QuizAttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
}
