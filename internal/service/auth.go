package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/ChKSz/GreenLink/internal/models"
	"github.com/ChKSz/GreenLink/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnauthorized возвращается при неверном пароле или недействительной сессии
var ErrUnauthorized = errors.New("unauthorized")

const (
	sessionTokenLength = 32
	sessionTTL         = 24 * time.Hour
	auditLogTTL        = 30 * 24 * time.Hour
)

// Действия, фиксируемые в журнале администратора
const (
	ActionLoginSuccess = "LOGIN_SUCCESS"
	ActionLoginFailed  = "LOGIN_FAILED"
)

// AdminAuth реализует вход администратора по общему паролю и выдачу
// непрозрачных токенов сессий. Единственный признак действительности
// сессии — наличие её ключа в хранилище; срок обеспечивается TTL.
type AdminAuth struct {
	store    repository.Store
	password string
	logger   *zap.Logger
}

// NewAdminAuth создаёт новый экземпляр AdminAuth
func NewAdminAuth(store repository.Store, password string, logger *zap.Logger) *AdminAuth {
	return &AdminAuth{
		store:    store,
		password: password,
		logger:   logger,
	}
}

// Login сверяет пароль и выдаёт токен сессии на 24 часа.
// Сравнение выполняется за постоянное время.
func (a *AdminAuth) Login(ctx context.Context, password, ip, userAgent string) (string, error) {
	if ip == "" {
		ip = UnknownClient
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		a.logAction(ctx, ActionLoginFailed, ip)
		return "", ErrUnauthorized
	}

	token, err := randomString(sessionTokenLength)
	if err != nil {
		return "", err
	}

	if userAgent == "" {
		userAgent = UnknownClient
	}
	session := models.Session{
		Created:   time.Now().UTC().Format(time.RFC3339),
		IP:        ip,
		UserAgent: userAgent,
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := a.store.Put(ctx, repository.SessionKey(token), data, sessionTTL); err != nil {
		return "", err
	}

	a.logAction(ctx, ActionLoginSuccess, ip)
	return token, nil
}

// Logout удаляет сессию; отсутствующий или недействительный токен не является ошибкой
func (a *AdminAuth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.store.Delete(ctx, repository.SessionKey(token)); err != nil {
		a.logger.Warn("Failed to delete session", zap.Error(err))
	}
	return nil
}

// Verify сообщает, действителен ли токен сессии.
// Причина отказа не раскрывается вызывающему, только фиксируется в логе.
func (a *AdminAuth) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := a.store.Get(ctx, repository.SessionKey(token))
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			a.logger.Warn("Session lookup failed", zap.Error(err))
		}
		return false
	}
	return true
}

// Logs возвращает журнал административных действий.
// Хранилище не поддерживает сканирование по диапазону ключей, поэтому
// выборка журнала пока не реализована и возвращает пустой список.
func (a *AdminAuth) Logs(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return []models.AuditEntry{}, nil
}

// logAction записывает действие администратора с TTL в 30 дней.
// Сбой записи журнала не должен ломать основную операцию.
func (a *AdminAuth) logAction(ctx context.Context, action, ip string) {
	entry := models.AuditEntry{
		Action:    action,
		IP:        ip,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UserAgent: "admin",
	}
	data, err := json.Marshal(entry)
	if err != nil {
		a.logger.Warn("Failed to marshal audit entry", zap.Error(err))
		return
	}

	key := repository.LogKey(time.Now().UnixMilli(), uuid.NewString()[:8])
	if err := a.store.Put(ctx, key, data, auditLogTTL); err != nil {
		a.logger.Warn("Failed to write audit entry", zap.String("action", action), zap.Error(err))
	}
}
