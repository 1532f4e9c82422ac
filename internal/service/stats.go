package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"go.uber.org/zap"
)

// Метки корзин статистики
const (
	referrerDirect = "direct"
	countryUnknown = "unknown"
)

// dailyBucketLayout задаёт формат суточной корзины (календарный день UTC)
const dailyBucketLayout = "2006-01-02"

// AccessInfo описывает один переход по короткой ссылке
type AccessInfo struct {
	Referer   string
	UserAgent string
	Country   string
	// Host — имя хоста самого сервиса; переходы с него считаются прямыми
	Host string
}

// StatsTracker ведёт запись статистики переходов для каждой короткой ссылки
type StatsTracker struct {
	store  repository.Store
	logger *zap.Logger
}

// NewStatsTracker создаёт новый экземпляр StatsTracker
func NewStatsTracker(store repository.Store, logger *zap.Logger) *StatsTracker {
	return &StatsTracker{
		store:  store,
		logger: logger,
	}
}

// Initialize создаёт запись статистики для новой ссылки с тем же TTL, что у ссылки
func (t *StatsTracker) Initialize(ctx context.Context, shortCode, longURL string, expiryHours int) error {
	now := time.Now().UTC()
	stats := models.Stats{
		Created:     now.Format(time.RFC3339),
		URL:         longURL,
		Referrers:   make(map[string]int),
		Countries:   make(map[string]int),
		UserAgents:  make(map[string]int),
		DailyClicks: make(map[string]int),
	}

	var ttl time.Duration
	if expiryHours > 0 {
		ttl = time.Duration(expiryHours) * time.Hour
		stats.ExpiresAt = now.Add(ttl).Format(time.RFC3339)
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return t.store.Put(ctx, repository.StatsKey(shortCode), data, ttl)
}

// RecordAccess фиксирует один переход: счётчик, время последнего доступа,
// реферер, класс устройства, страну и суточную корзину. Если записи
// статистики нет, переход молча пропускается — запись никогда не создаётся
// как побочный эффект перенаправления.
func (t *StatsTracker) RecordAccess(ctx context.Context, shortCode string, info AccessInfo) error {
	key := repository.StatsKey(shortCode)
	data, err := t.store.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var stats models.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	if stats.Referrers == nil {
		stats.Referrers = make(map[string]int)
	}
	if stats.Countries == nil {
		stats.Countries = make(map[string]int)
	}
	if stats.UserAgents == nil {
		stats.UserAgents = make(map[string]int)
	}
	if stats.DailyClicks == nil {
		stats.DailyClicks = make(map[string]int)
	}

	now := time.Now().UTC()
	stats.Clicks++
	stats.LastAccess = now.Format(time.RFC3339)
	stats.Referrers[classifyReferrer(info.Referer, info.Host)]++
	stats.UserAgents[ClassifyDevice(info.UserAgent)]++
	stats.DailyClicks[now.Format(dailyBucketLayout)]++
	stats.Countries[classifyCountry(info.Country)]++

	updated, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return t.store.Put(ctx, key, updated, 0)
}

// Fetch возвращает запись статистики по короткому коду и флаг существования
func (t *StatsTracker) Fetch(ctx context.Context, shortCode string) (models.Stats, bool, error) {
	data, err := t.store.Get(ctx, repository.StatsKey(shortCode))
	if errors.Is(err, repository.ErrKeyNotFound) {
		return models.Stats{}, false, nil
	}
	if err != nil {
		return models.Stats{}, false, err
	}

	var stats models.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return models.Stats{}, false, err
	}
	return stats, true, nil
}

// classifyReferrer извлекает домен реферера без префикса www.
// Отсутствующий, неразборчивый или собственный домен сервиса считается
// прямым переходом.
func classifyReferrer(referer, host string) string {
	if referer == "" {
		return referrerDirect
	}
	u, err := url.Parse(referer)
	if err != nil || u.Hostname() == "" {
		return referrerDirect
	}

	domain := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "" && (domain == host || strings.Contains(domain, host)) {
		return referrerDirect
	}
	return domain
}

// classifyCountry отображает сервисные коды XX и T1 и пустое значение в unknown
func classifyCountry(country string) string {
	if country == "" || country == "XX" || country == "T1" {
		return countryUnknown
	}
	return country
}
