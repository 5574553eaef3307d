package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lexibot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestResultCacheServicePut(t *testing.T) {
	ttl := 30 * time.Minute
	result := &CachedResult{
		Explanation: "A short pause from an activity.",
		Examples:    []string{"I need to take a break."},
	}

	var gotKey, gotValue string
	var gotExpiration time.Duration
	mockCache := &ManualMockCache{
		SetFunc: func(ctx context.Context, key string, value string, expiration time.Duration) error {
			gotKey = key
			gotValue = value
			gotExpiration = expiration
			return nil
		},
	}

	svc := NewResultCacheService(mockCache, ttl)
	err := svc.Put(context.Background(), 7, "Take A Break", result)
	assert.NoError(t, err)

	// The key is normalized so Save finds the result regardless of the
	// casing the callback carried.
	assert.Equal(t, "lexibot:session:result:7:take a break", gotKey)
	assert.Equal(t, ttl, gotExpiration)

	var stored CachedResult
	assert.NoError(t, json.Unmarshal([]byte(gotValue), &stored))
	assert.Equal(t, *result, stored)
}

func TestResultCacheServiceGet(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		payload, _ := json.Marshal(&CachedResult{Explanation: "e", Examples: []string{"x"}})
		mockCache := &ManualMockCache{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(payload), nil
			},
		}
		svc := NewResultCacheService(mockCache, time.Minute)

		got, err := svc.Get(context.Background(), 7, "take a break")
		assert.NoError(t, err)
		assert.Equal(t, "e", got.Explanation)
		assert.Equal(t, []string{"x"}, got.Examples)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		mockCache := &ManualMockCache{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", domain.ErrCacheMiss
			},
		}
		svc := NewResultCacheService(mockCache, time.Minute)

		got, err := svc.Get(context.Background(), 7, "unknown")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt payload is treated as miss", func(t *testing.T) {
		mockCache := &ManualMockCache{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "{not json", nil
			},
		}
		svc := NewResultCacheService(mockCache, time.Minute)

		got, err := svc.Get(context.Background(), 7, "term")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("backend failure propagates", func(t *testing.T) {
		backendErr := errors.New("connection refused")
		mockCache := &ManualMockCache{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", backendErr
			},
		}
		svc := NewResultCacheService(mockCache, time.Minute)

		_, err := svc.Get(context.Background(), 7, "term")
		assert.ErrorIs(t, err, backendErr)
	})
}
