package service

import (
	"context"
	"testing"
	"time"

	"github.com/ChKSz/GreenLink/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	limiter := NewRateLimiter(store, zap.NewNop())

	current := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	// Тест 1: первые десять запросов проходят
	for i := 0; i < 10; i++ {
		allowed, err := limiter.Allow(ctx, "192.0.2.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	// Тест 2: одиннадцатый запрос отклоняется
	allowed, err := limiter.Allow(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Тест 3: лимит считается отдельно для каждого клиента
	allowed, err = limiter.Allow(ctx, "192.0.2.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Тест 4: следующая календарная минута открывает новое окно
	current = current.Add(time.Minute)
	allowed, err = limiter.Allow(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_UnknownIdentity(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	limiter := NewRateLimiter(store, zap.NewNop())

	current := time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	// Пустой адрес попадает в общую корзину unknown
	allowed, err := limiter.Allow(ctx, "")
	require.NoError(t, err)
	assert.True(t, allowed)

	bucket := current.Unix() / 60
	_, err = store.Get(ctx, repository.RateKey(UnknownClient, bucket))
	assert.NoError(t, err, "counter should be stored under the unknown bucket")
}
