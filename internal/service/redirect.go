package service

import (
	"context"

	"go.uber.org/zap"
)

// Outcome перечисляет исходы обработки перехода по короткой ссылке
type Outcome int

const (
	// OutcomeRedirect — переход разрешён, выполняется перенаправление
	OutcomeRedirect Outcome = iota
	// OutcomeNotFound — короткий код неизвестен
	OutcomeNotFound
	// OutcomeQuotaExceeded — лимит переходов исчерпан, ссылка окончательно недоступна
	OutcomeQuotaExceeded
	// OutcomePasswordRequired — требуется пароль, переход не засчитывается
	OutcomePasswordRequired
)

// Decision описывает результат обработки перехода
type Decision struct {
	Outcome Outcome
	URL     string
}

// Visit описывает входящий запрос перехода
type Visit struct {
	// Password — значение параметра запроса p
	Password  string
	Referer   string
	UserAgent string
	Country   string
	Host      string
}

// RedirectEngine принимает решение о переходе по короткой ссылке:
// поиск записи, проверка лимита, проверка пароля, инкремент счётчика
// и запись статистики.
type RedirectEngine struct {
	links  *LinkRegistry
	stats  *StatsTracker
	logger *zap.Logger
}

// NewRedirectEngine создаёт новый экземпляр RedirectEngine
func NewRedirectEngine(links *LinkRegistry, stats *StatsTracker, logger *zap.Logger) *RedirectEngine {
	return &RedirectEngine{
		links:  links,
		stats:  stats,
		logger: logger,
	}
}

// Resolve обрабатывает переход. Проверки выполняются строго по порядку:
// существование записи, затем лимит переходов, затем пароль — исчерпанная
// ссылка не показывает форму пароля. Заблокированный переход не изменяет
// ни счётчик ссылки, ни статистику.
func (e *RedirectEngine) Resolve(ctx context.Context, shortCode string, visit Visit) (Decision, error) {
	link, found, err := e.links.Lookup(ctx, shortCode)
	if err != nil {
		return Decision{}, err
	}
	if !found {
		return Decision{Outcome: OutcomeNotFound}, nil
	}

	if link.MaxClicks > 0 && link.CurrentClicks >= link.MaxClicks {
		return Decision{Outcome: OutcomeQuotaExceeded}, nil
	}

	if link.Password != "" && visit.Password != link.Password {
		return Decision{Outcome: OutcomePasswordRequired}, nil
	}

	// Безлимитные ссылки не переписываются на каждый переход
	if link.MaxClicks > 0 {
		if err := e.links.IncrementClicks(ctx, shortCode, link); err != nil {
			return Decision{}, err
		}
	}

	// Статистика ведётся по возможности и никогда не блокирует переход
	if err := e.stats.RecordAccess(ctx, shortCode, AccessInfo{
		Referer:   visit.Referer,
		UserAgent: visit.UserAgent,
		Country:   visit.Country,
		Host:      visit.Host,
	}); err != nil {
		e.logger.Warn("Failed to record access", zap.String("short_code", shortCode), zap.Error(err))
	}

	return Decision{Outcome: OutcomeRedirect, URL: link.URL}, nil
}
