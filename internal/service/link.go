// Package service реализует бизнес-логику сервиса сокращения URL:
// реестр ссылок, статистику переходов, ограничение частоты запросов,
// административные сессии и принятие решения о перенаправлении.
package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrEmptyURL       = errors.New("empty URL")
	ErrInvalidURL     = errors.New("invalid URL")
	ErrUnsafeURL      = errors.New("unsafe URL")
	ErrCodeInvalid    = errors.New("invalid custom code")
	ErrCodeReserved   = errors.New("custom code is reserved")
	ErrCodeExists     = errors.New("custom code already exists")
	ErrUniqueIDFailed = errors.New("failed to generate unique short code")
)

// codeAlphabet задаёт алфавит коротких кодов и токенов сессий
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	generatedCodeLength = 6
	codeGenAttempts     = 5
)

// randomString возвращает криптографически случайную строку заданной длины
func randomString(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = codeAlphabet[n.Int64()]
	}
	return string(result), nil
}

// CreateParams содержит параметры создания короткой ссылки
type CreateParams struct {
	URL         string
	CustomCode  string
	Password    string
	MaxClicks   int
	ExpiryHours int
}

// CreatedLink описывает результат создания короткой ссылки
type CreatedLink struct {
	ShortCode string
	Created   string
}

// LinkRegistry реализует создание, поиск и изменение записей коротких ссылок
type LinkRegistry struct {
	store  repository.Store
	stats  *StatsTracker
	logger *zap.Logger
}

// NewLinkRegistry создаёт новый экземпляр LinkRegistry
func NewLinkRegistry(store repository.Store, stats *StatsTracker, logger *zap.Logger) *LinkRegistry {
	return &LinkRegistry{
		store:  store,
		stats:  stats,
		logger: logger,
	}
}

// Create валидирует URL, подбирает короткий код и записывает ссылку вместе
// со статистикой. Валидация выполняется до любой записи в хранилище.
func (r *LinkRegistry) Create(ctx context.Context, p CreateParams) (*CreatedLink, error) {
	if p.URL == "" {
		return nil, ErrEmptyURL
	}
	if !isValidURL(p.URL) {
		return nil, ErrInvalidURL
	}
	if !isSafeURL(p.URL) {
		return nil, ErrUnsafeURL
	}

	shortCode := p.CustomCode
	if shortCode != "" {
		if err := validateCustomCode(shortCode); err != nil {
			return nil, err
		}
		_, err := r.store.Get(ctx, shortCode)
		if err == nil {
			return nil, ErrCodeExists
		}
		if !errors.Is(err, repository.ErrKeyNotFound) {
			return nil, err
		}
	} else {
		var err error
		shortCode, err = r.generateUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	link := models.Link{
		URL:      p.URL,
		Created:  time.Now().UTC().Format(time.RFC3339),
		Password: p.Password,
	}
	if p.MaxClicks > 0 {
		link.MaxClicks = p.MaxClicks
	}

	data, err := json.Marshal(link)
	if err != nil {
		return nil, err
	}

	var ttl time.Duration
	if p.ExpiryHours > 0 {
		ttl = time.Duration(p.ExpiryHours) * time.Hour
	}
	if err := r.store.Put(ctx, shortCode, data, ttl); err != nil {
		return nil, err
	}

	// Статистика инициализируется следом за ссылкой; сбой здесь не откатывает
	// созданную ссылку — запись без статистики допустима
	if err := r.stats.Initialize(ctx, shortCode, p.URL, p.ExpiryHours); err != nil {
		r.logger.Warn("Failed to initialize stats", zap.String("short_code", shortCode), zap.Error(err))
	}

	return &CreatedLink{ShortCode: shortCode, Created: link.Created}, nil
}

// generateUniqueCode подбирает свободный короткий код с ограниченным числом попыток
func (r *LinkRegistry) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		code, err := randomString(generatedCodeLength)
		if err != nil {
			return "", err
		}
		_, err = r.store.Get(ctx, code)
		if errors.Is(err, repository.ErrKeyNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrUniqueIDFailed
}

// Lookup возвращает запись ссылки по короткому коду и флаг существования.
// Записи старого формата (голая строка URL вместо JSON) читаются как ссылка
// без пароля и лимита переходов.
func (r *LinkRegistry) Lookup(ctx context.Context, shortCode string) (models.Link, bool, error) {
	data, err := r.store.Get(ctx, shortCode)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return models.Link{}, false, nil
	}
	if err != nil {
		return models.Link{}, false, err
	}

	var link models.Link
	if err := json.Unmarshal(data, &link); err != nil || link.URL == "" {
		return models.Link{URL: string(data)}, true, nil
	}
	return link, true, nil
}

// IncrementClicks записывает ссылку обратно с увеличенным счётчиком переходов.
// Вызывается только для ссылок с лимитом; обычное чтение-запись без
// условного обновления, одновременные переходы могут потерять инкремент.
func (r *LinkRegistry) IncrementClicks(ctx context.Context, shortCode string, link models.Link) error {
	link.CurrentClicks++
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, shortCode, data, 0)
}

// Delete удаляет ссылку вместе со статистикой; операция идемпотентна
func (r *LinkRegistry) Delete(ctx context.Context, shortCode string) error {
	if err := r.store.Delete(ctx, shortCode); err != nil {
		return err
	}
	return r.store.Delete(ctx, repository.StatsKey(shortCode))
}
