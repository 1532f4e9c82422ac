package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"go.uber.org/zap"
)

// ErrInvalidLanguage возвращается при попытке установить неподдерживаемый язык
var ErrInvalidLanguage = errors.New("invalid language")

// defaultLanguage используется при отсутствии или нечитаемости настройки
const defaultLanguage = "en"

var supportedLanguages = map[string]bool{
	"en": true,
	"zh": true,
}

// LanguageSettings управляет глобальной настройкой языка интерфейса.
// Настройка читается из хранилища на каждый запрос, без кэширования.
type LanguageSettings struct {
	store  repository.Store
	logger *zap.Logger
}

// NewLanguageSettings создаёт новый экземпляр LanguageSettings
func NewLanguageSettings(store repository.Store, logger *zap.Logger) *LanguageSettings {
	return &LanguageSettings{
		store:  store,
		logger: logger,
	}
}

// Get возвращает текущий язык интерфейса; любая ошибка даёт значение по умолчанию
func (s *LanguageSettings) Get(ctx context.Context) string {
	data, err := s.store.Get(ctx, repository.LanguageKey)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.logger.Warn("Failed to read language setting", zap.Error(err))
		}
		return defaultLanguage
	}

	var setting models.LanguageSetting
	if err := json.Unmarshal(data, &setting); err != nil || setting.Language == "" {
		return defaultLanguage
	}
	return setting.Language
}

// Set сохраняет язык интерфейса; допустимы только en и zh
func (s *LanguageSettings) Set(ctx context.Context, language string) error {
	if !supportedLanguages[language] {
		return ErrInvalidLanguage
	}

	setting := models.LanguageSetting{
		Language:  language,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(setting)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, repository.LanguageKey, data, 0)
}
