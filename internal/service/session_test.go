package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"lexibot/internal/config"
	"lexibot/internal/domain"
	"lexibot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMain initializes the logger for all tests in this package.
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

func exampleSentences(term string) []string {
	examples := make([]string, domain.ExampleCount)
	for i := range examples {
		examples[i] = fmt.Sprintf("Sentence %d contains %s.", i+1, term)
	}
	return examples
}

func TestSessionServiceExplain(t *testing.T) {
	ctx := context.Background()

	t.Run("success stages the result", func(t *testing.T) {
		explainer := new(MockExplanationService)
		resultCache := new(MockResultCacheService)
		terms := new(MockSavedTermRepository)
		svc := NewSessionService(explainer, resultCache, terms)

		explanation := &domain.Explanation{
			Term:              "take a break",
			SimpleExplanation: "To stop an activity for a short time.",
			Examples:          exampleSentences("take a break"),
		}
		explainer.On("Explain", ctx, "take a break").Return(explanation, nil)
		resultCache.On("Put", ctx, int64(7), "take a break", mock.MatchedBy(func(r *CachedResult) bool {
			return r.Explanation == explanation.SimpleExplanation && len(r.Examples) == domain.ExampleCount
		})).Return(nil)

		resp, err := svc.Explain(ctx, 7, "  take a break ")
		assert.NoError(t, err)
		assert.Equal(t, "take a break", resp.Term)
		assert.Equal(t, explanation.SimpleExplanation, resp.Explanation)
		assert.Len(t, resp.Examples, domain.ExampleCount)
		explainer.AssertExpectations(t)
		resultCache.AssertExpectations(t)
	})

	t.Run("invalid term never reaches the generator", func(t *testing.T) {
		explainer := new(MockExplanationService)
		svc := NewSessionService(explainer, new(MockResultCacheService), new(MockSavedTermRepository))

		_, err := svc.Explain(ctx, 7, "not a valid term at all")
		assert.True(t, domain.HasCode(err, domain.ErrInvalidTerm))
		explainer.AssertNotCalled(t, "Explain", mock.Anything, mock.Anything)
	})

	t.Run("generation failure propagates", func(t *testing.T) {
		explainer := new(MockExplanationService)
		svc := NewSessionService(explainer, new(MockResultCacheService), new(MockSavedTermRepository))

		explainer.On("Explain", ctx, "word").Return(nil, domain.NewGenerationError(errors.New("llm down")))

		_, err := svc.Explain(ctx, 7, "word")
		assert.True(t, domain.HasCode(err, domain.ErrGeneration))
	})

	t.Run("cache write failure does not block the reply", func(t *testing.T) {
		explainer := new(MockExplanationService)
		resultCache := new(MockResultCacheService)
		svc := NewSessionService(explainer, resultCache, new(MockSavedTermRepository))

		explanation := &domain.Explanation{
			Term:              "word",
			SimpleExplanation: "An explanation.",
			Examples:          exampleSentences("word"),
		}
		explainer.On("Explain", ctx, "word").Return(explanation, nil)
		resultCache.On("Put", ctx, int64(7), "word", mock.Anything).Return(errors.New("redis down"))

		resp, err := svc.Explain(ctx, 7, "word")
		assert.NoError(t, err)
		assert.Equal(t, "An explanation.", resp.Explanation)
	})
}

func TestSessionServiceMoreExamples(t *testing.T) {
	ctx := context.Background()

	// Every request regenerates; the staged result is replaced with the
	// newest generation.
	explainer := new(MockExplanationService)
	resultCache := new(MockResultCacheService)
	svc := NewSessionService(explainer, resultCache, new(MockSavedTermRepository))

	explanation := &domain.Explanation{
		Term:              "word",
		SimpleExplanation: "A newer explanation.",
		Examples:          exampleSentences("word"),
	}
	explainer.On("Explain", ctx, "word").Return(explanation, nil).Once()
	resultCache.On("Put", ctx, int64(7), "word", mock.MatchedBy(func(r *CachedResult) bool {
		return r.Explanation == "A newer explanation."
	})).Return(nil).Once()

	resp, err := svc.MoreExamples(ctx, 7, "word")
	assert.NoError(t, err)
	assert.Equal(t, "A newer explanation.", resp.Explanation)
	explainer.AssertExpectations(t)
	resultCache.AssertExpectations(t)
}

func TestSessionServiceSave(t *testing.T) {
	ctx := context.Background()
	staged := &CachedResult{
		Explanation: "To stop an activity for a short time.",
		Examples:    exampleSentences("take a break"),
	}

	t.Run("saves the staged result under the normalized term", func(t *testing.T) {
		resultCache := new(MockResultCacheService)
		terms := new(MockSavedTermRepository)
		svc := NewSessionService(new(MockExplanationService), resultCache, terms)

		resultCache.On("Get", ctx, int64(7), "Take A Break").Return(staged, nil)
		terms.On("Save", ctx, mock.MatchedBy(func(st *domain.SavedTerm) bool {
			return st.UserID == 7 && st.Term == "take a break" && st.Explanation == staged.Explanation
		})).Return(nil)

		resp, err := svc.Save(ctx, 7, "Take A Break")
		assert.NoError(t, err)
		assert.Equal(t, "take a break", resp.Term)
		assert.False(t, resp.AlreadySaved)
		terms.AssertExpectations(t)
	})

	t.Run("nothing staged", func(t *testing.T) {
		resultCache := new(MockResultCacheService)
		svc := NewSessionService(new(MockExplanationService), resultCache, new(MockSavedTermRepository))

		resultCache.On("Get", ctx, int64(7), "word").Return(nil, nil)

		_, err := svc.Save(ctx, 7, "word")
		assert.True(t, domain.HasCode(err, domain.ErrNoCachedResult))
	})

	t.Run("duplicate save is reported, not failed", func(t *testing.T) {
		resultCache := new(MockResultCacheService)
		terms := new(MockSavedTermRepository)
		svc := NewSessionService(new(MockExplanationService), resultCache, terms)

		resultCache.On("Get", ctx, int64(7), "word").Return(staged, nil)
		terms.On("Save", ctx, mock.Anything).Return(domain.NewAlreadySavedError("word"))

		resp, err := svc.Save(ctx, 7, "word")
		assert.NoError(t, err)
		assert.True(t, resp.AlreadySaved)
	})
}
