package service

import (
	"context"
	"time"

	"lexibot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockExplanationService ---
type MockExplanationService struct {
	mock.Mock
}

func (m *MockExplanationService) Explain(ctx context.Context, term string) (*domain.Explanation, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Explanation), args.Error(1)
}

func (m *MockExplanationService) Distract(ctx context.Context, term, correctExplanation string) ([]string, error) {
	args := m.Called(ctx, term, correctExplanation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockSavedTermRepository ---
type MockSavedTermRepository struct {
	mock.Mock
}

func (m *MockSavedTermRepository) Save(ctx context.Context, term *domain.SavedTerm) error {
	args := m.Called(ctx, term)
	return args.Error(0)
}

func (m *MockSavedTermRepository) Get(ctx context.Context, userID int64, term string) (*domain.SavedTerm, error) {
	args := m.Called(ctx, userID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedTerm), args.Error(1)
}

func (m *MockSavedTermRepository) List(ctx context.Context, userID int64, limit, offset int) ([]domain.SavedTerm, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedTerm), args.Error(1)
}

func (m *MockSavedTermRepository) Count(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- MockQuizAttemptRepository ---
type MockQuizAttemptRepository struct {
	mock.Mock
}

func (m *MockQuizAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

// --- MockResultCacheService ---
type MockResultCacheService struct {
	mock.Mock
}

func (m *MockResultCacheService) Put(ctx context.Context, userID int64, term string, result *CachedResult) error {
	args := m.Called(ctx, userID, term, result)
	return args.Error(0)
}

func (m *MockResultCacheService) Get(ctx context.Context, userID int64, term string) (*CachedResult, error) {
	args := m.Called(ctx, userID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CachedResult), args.Error(1)
}

// ManualMockCache implements domain.Cache for the result cache tests.
type ManualMockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
	PingFunc   func(ctx context.Context) error
}

func (m *ManualMockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrCacheMiss
}

func (m *ManualMockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *ManualMockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *ManualMockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
