package service

import (
	"context"
	"strings"

	"lexibot/internal/domain"
	"lexibot/internal/dto"
	"lexibot/internal/logger"

	"go.uber.org/zap"
)

// SessionService drives the term-learning flow: validate an incoming
// term, invoke the explanation generator, stage the result for a later
// Save, and persist saved terms.
type SessionService interface {
	// Explain validates rawTerm and generates an explanation with examples.
	Explain(ctx context.Context, userID int64, rawTerm string) (*dto.ExplanationResponse, error)
	// MoreExamples regenerates for an already-presented term. The staged
	// result is overwritten with the newest generation.
	MoreExamples(ctx context.Context, userID int64, term string) (*dto.ExplanationResponse, error)
	// Save persists the staged result for (user, term).
	Save(ctx context.Context, userID int64, term string) (*dto.SaveResponse, error)
}

// sessionService implements SessionService
type sessionService struct {
	explainer   domain.ExplanationService
	resultCache ResultCacheService
	terms       domain.SavedTermRepository
}

// NewSessionService creates a new instance of sessionService
func NewSessionService(
	explainer domain.ExplanationService,
	resultCache ResultCacheService,
	terms domain.SavedTermRepository,
) SessionService {
	return &sessionService{
		explainer:   explainer,
		resultCache: resultCache,
		terms:       terms,
	}
}

// Explain implements SessionService
func (s *sessionService) Explain(ctx context.Context, userID int64, rawTerm string) (*dto.ExplanationResponse, error) {
	term, err := domain.NewTerm(rawTerm)
	if err != nil {
		// Malformed input is not a fault; no generator call is made.
		return nil, err
	}
	return s.generate(ctx, userID, term.String())
}

// MoreExamples implements SessionService. It never reuses the staged
// result; every request is a fresh generation.
func (s *sessionService) MoreExamples(ctx context.Context, userID int64, term string) (*dto.ExplanationResponse, error) {
	validated, err := domain.NewTerm(term)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, userID, validated.String())
}

func (s *sessionService) generate(ctx context.Context, userID int64, term string) (*dto.ExplanationResponse, error) {
	result, err := s.explainer.Explain(ctx, term)
	if err != nil {
		if domain.HasCode(err, domain.ErrGeneration) {
			return nil, err
		}
		return nil, domain.NewGenerationError(err)
	}

	staged := &CachedResult{
		Explanation: result.SimpleExplanation,
		Examples:    result.Examples,
	}
	if err := s.resultCache.Put(ctx, userID, term, staged); err != nil {
		// The user still gets the explanation; only a later Save may
		// have to ask for a resend.
		logger.Get().Error("SessionService: failed to stage result for save",
			zap.Error(err),
			zap.Int64("userID", userID),
			zap.String("term", term))
	}

	return &dto.ExplanationResponse{
		Term:        term,
		Explanation: result.SimpleExplanation,
		Examples:    result.Examples,
	}, nil
}

// Save implements SessionService
func (s *sessionService) Save(ctx context.Context, userID int64, term string) (*dto.SaveResponse, error) {
	staged, err := s.resultCache.Get(ctx, userID, term)
	if err != nil {
		return nil, domain.NewInternalError("Failed to read staged result", err)
	}
	if staged == nil {
		return nil, domain.NewNoCachedResultError(term)
	}

	normalized := domain.NormalizeTerm(term)
	saveErr := s.terms.Save(ctx, &domain.SavedTerm{
		UserID:      userID,
		Term:        normalized,
		Explanation: strings.TrimSpace(staged.Explanation),
		Examples:    staged.Examples,
	})
	if saveErr != nil {
		if domain.HasCode(saveErr, domain.ErrAlreadySaved) {
			return &dto.SaveResponse{Term: normalized, AlreadySaved: true}, nil
		}
		return nil, domain.NewInternalError("Failed to save term", saveErr)
	}

	return &dto.SaveResponse{Term: normalized}, nil
}
