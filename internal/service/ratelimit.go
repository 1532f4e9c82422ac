package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ChKSz/GreenLink/internal/repository"
	"go.uber.org/zap"
)

const (
	// rateLimitPerMinute ограничивает число созданий ссылок с одного адреса
	rateLimitPerMinute = 10
	// rateCounterTTL задаёт срок жизни минутного счётчика
	rateCounterTTL = 60 * time.Second
)

// UnknownClient — общая корзина для клиентов без определимого адреса
const UnknownClient = "unknown"

// RateLimiter считает запросы клиента в фиксированных минутных окнах.
// Окно — календарная минута (floor(unix/60)), не скользящее.
type RateLimiter struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter создаёт новый экземпляр RateLimiter
func NewRateLimiter(store repository.Store, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Allow проверяет и увеличивает счётчик текущей минуты для клиента.
// При достигнутом лимите счётчик не изменяется.
func (l *RateLimiter) Allow(ctx context.Context, identity string) (bool, error) {
	if identity == "" {
		identity = UnknownClient
	}

	bucket := l.now().Unix() / 60
	key := repository.RateKey(identity, bucket)

	count := 0
	data, err := l.store.Get(ctx, key)
	if err == nil {
		count, _ = strconv.Atoi(string(data))
	} else if !errors.Is(err, repository.ErrKeyNotFound) {
		return false, err
	}

	if count >= rateLimitPerMinute {
		l.logger.Warn("Rate limit exceeded", zap.String("identity", identity))
		return false, nil
	}

	if err := l.store.Put(ctx, key, []byte(strconv.Itoa(count+1)), rateCounterTTL); err != nil {
		return false, err
	}
	return true, nil
}
