package service

import (
	"context"
	"math/rand"
	"sync"

	"lexibot/internal/domain"
	"lexibot/internal/dto"
	"lexibot/internal/logger"
	"lexibot/internal/token"

	"go.uber.org/zap"
)

// QuizService builds graded-recall quizzes from a user's saved terms
// and records attempt outcomes.
type QuizService interface {
	// BuildQuiz assembles a 3-option quiz for a saved term. The correct
	// explanation is mixed with two distractors in random order, and
	// each option carries a signed token embedding the grading context.
	BuildQuiz(ctx context.Context, userID int64, term string) (*dto.QuizResponse, error)
	// Grade scores an answer, records the attempt, and returns a recap.
	Grade(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error)
	// ListSaved returns one page of the user's saved terms.
	ListSaved(ctx context.Context, userID int64, page int) (*dto.SavedListResponse, error)
}

// quizService implements QuizService
type quizService struct {
	terms     domain.SavedTermRepository
	attempts  domain.QuizAttemptRepository
	explainer domain.ExplanationService
	signer    *token.Signer
	pageSize  int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	terms domain.SavedTermRepository,
	attempts domain.QuizAttemptRepository,
	explainer domain.ExplanationService,
	signer *token.Signer,
	pageSize int,
	rng *rand.Rand,
) QuizService {
	return &quizService{
		terms:     terms,
		attempts:  attempts,
		explainer: explainer,
		signer:    signer,
		pageSize:  pageSize,
		rng:       rng,
	}
}

// BuildQuiz implements QuizService
func (s *quizService) BuildQuiz(ctx context.Context, userID int64, term string) (*dto.QuizResponse, error) {
	normalized := domain.NormalizeTerm(term)
	saved, err := s.terms.Get(ctx, userID, normalized)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load saved term", err)
	}
	if saved == nil {
		return nil, domain.NewTermNotSavedError(normalized)
	}

	raw, genErr := s.explainer.Distract(ctx, saved.Term, saved.Explanation)
	if genErr != nil {
		// The quiz is still served; the deterministic pair stands in.
		logger.Get().Warn("QuizService: distractor generation failed, using fallback",
			zap.Error(genErr),
			zap.String("term", saved.Term))
		raw = nil
	}
	distractors := domain.DistractorsOrFallback(raw)

	s.mu.Lock()
	quiz := domain.NewQuizInstance(saved.Term, saved.Explanation, distractors, s.rng)
	s.mu.Unlock()

	options := make([]dto.QuizOption, 0, len(quiz.Options))
	for i, label := range quiz.Options {
		options = append(options, dto.QuizOption{
			Label: label,
			Token: s.signer.AnswerToken(token.AnswerPayload{
				Term:         quiz.Term,
				ChosenIndex:  i,
				CorrectIndex: quiz.CorrectIndex,
			}),
		})
	}

	return &dto.QuizResponse{Term: quiz.Term, Options: options}, nil
}

// Grade implements QuizService. Attempt recording is best effort: a
// storage failure is logged but never blocks the feedback.
func (s *quizService) Grade(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error) {
	result := domain.Grade(req.ChosenIndex, req.CorrectIndex)

	if err := s.attempts.CreateAttempt(ctx, &domain.QuizAttempt{
		UserID:       req.UserID,
		Term:         req.Term,
		ChosenIndex:  req.ChosenIndex,
		CorrectIndex: req.CorrectIndex,
	}); err != nil {
		logger.Get().Error("QuizService: failed to record quiz attempt",
			zap.Error(err),
			zap.Int64("userID", req.UserID),
			zap.String("term", req.Term))
	}

	resp := &dto.GradeResponse{
		Correct:       result.Correct,
		CorrectNumber: result.CorrectNumber,
		Term:          req.Term,
		Explanation:   "N/A",
		FirstExample:  "N/A",
	}

	saved, err := s.terms.Get(ctx, req.UserID, domain.NormalizeTerm(req.Term))
	if err != nil {
		logger.Get().Warn("QuizService: failed to load term for recap",
			zap.Error(err),
			zap.String("term", req.Term))
		return resp, nil
	}
	if saved != nil {
		resp.Explanation = saved.Explanation
		if len(saved.Examples) > 0 {
			resp.FirstExample = saved.Examples[0]
		}
	}
	return resp, nil
}

// ListSaved implements QuizService. Page numbers outside the valid
// range are clamped rather than rejected.
func (s *quizService) ListSaved(ctx context.Context, userID int64, page int) (*dto.SavedListResponse, error) {
	total, err := s.terms.Count(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count saved terms", err)
	}

	totalPages := (total + s.pageSize - 1) / s.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	terms, err := s.terms.List(ctx, userID, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list saved terms", err)
	}

	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, t.Term)
	}

	return &dto.SavedListResponse{
		Terms:      names,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}, nil
}
