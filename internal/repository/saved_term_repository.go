package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/repository/models"
	"lexibot/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// sqlxSavedTermRepository implements domain.SavedTermRepository using sqlx.
type sqlxSavedTermRepository struct {
	db *sqlx.DB
}

// NewSQLXSavedTermRepository creates a new instance of sqlxSavedTermRepository.
func NewSQLXSavedTermRepository(db *sqlx.DB) domain.SavedTermRepository {
	return &sqlxSavedTermRepository{db: db}
}

func toDomainSavedTerm(model *models.SavedTerm) *domain.SavedTerm {
	if model == nil {
		return nil
	}
	return &domain.SavedTerm{
		ID:          model.ID,
		UserID:      model.UserID,
		Term:        model.Term,
		Explanation: model.Explanation,
		Examples:    model.Examples,
		CreatedAt:   model.CreatedAt,
	}
}

// Save inserts a new saved term. Deduplication relies on the store's
// UNIQUE(user_id, term) constraint rather than check-then-write; a
// constraint violation is reported as an ALREADY_SAVED domain error.
func (r *sqlxSavedTermRepository) Save(ctx context.Context, term *domain.SavedTerm) error {
	model := &models.SavedTerm{
		ID:          term.ID,
		UserID:      term.UserID,
		Term:        term.Term,
		Explanation: term.Explanation,
		Examples:    models.StringSlice(term.Examples),
		CreatedAt:   term.CreatedAt,
	}
	if model.ID == "" {
		model.ID = util.NewULID()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}

	query := `INSERT INTO saved_terms (id, user_id, term, explanation, examples_json, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	examplesJSON, err := model.Examples.Value()
	if err != nil {
		return fmt.Errorf("failed to serialize examples: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		model.ID,
		model.UserID,
		model.Term,
		model.Explanation,
		examplesJSON,
		model.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return domain.NewAlreadySavedError(model.Term)
		}
		return fmt.Errorf("failed to save term: %w", err)
	}
	return nil
}

// Get retrieves a saved term for a user, or (nil, nil) when absent.
func (r *sqlxSavedTermRepository) Get(ctx context.Context, userID int64, term string) (*domain.SavedTerm, error) {
	query := `SELECT id, user_id, term, explanation, examples_json, created_at
	          FROM saved_terms WHERE user_id = ? AND term = ?`

	var model models.SavedTerm
	err := r.db.GetContext(ctx, &model, query, userID, term)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get saved term: %w", err)
	}
	return toDomainSavedTerm(&model), nil
}

// List returns a page of the user's saved terms, newest first.
func (r *sqlxSavedTermRepository) List(ctx context.Context, userID int64, limit, offset int) ([]domain.SavedTerm, error) {
	query := `SELECT id, user_id, term, explanation, examples_json, created_at
	          FROM saved_terms WHERE user_id = ?
	          ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	var modelTerms []models.SavedTerm
	if err := r.db.SelectContext(ctx, &modelTerms, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list saved terms: %w", err)
	}

	domainTerms := make([]domain.SavedTerm, 0, len(modelTerms))
	for i := range modelTerms {
		domainTerms = append(domainTerms, *toDomainSavedTerm(&modelTerms[i]))
	}
	return domainTerms, nil
}

// Count returns the number of terms the user has saved.
func (r *sqlxSavedTermRepository) Count(ctx context.Context, userID int64) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM saved_terms WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to count saved terms: %w", err)
	}
	return total, nil
}
