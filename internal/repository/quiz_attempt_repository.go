package repository

import (
	"context"
	"fmt"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository/models"
	"lexibot/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizAttemptRepository implements domain.QuizAttemptRepository using sqlx.
type sqlxQuizAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizAttemptRepository creates a new instance of sqlxQuizAttemptRepository.
func NewSQLXQuizAttemptRepository(db *sqlx.DB) domain.QuizAttemptRepository {
	return &sqlxQuizAttemptRepository{db: db}
}

// CreateAttempt appends a quiz attempt record. The table is append-only;
// records are never updated or deleted.
func (r *sqlxQuizAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	model := &models.QuizAttempt{
		ID:        attempt.ID,
		UserID:    attempt.UserID,
		Term:      attempt.Term,
		Chosen:    attempt.ChosenIndex,
		Correct:   attempt.CorrectIndex,
		CreatedAt: attempt.CreatedAt,
	}
	if model.ID == "" {
		model.ID = util.NewULID()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	query := `INSERT INTO quiz_attempts (id, user_id, term, chosen, correct, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.UserID,
		model.Term,
		model.Chosen,
		model.Correct,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	return nil
}
