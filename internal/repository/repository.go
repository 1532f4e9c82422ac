// Package repository содержит абстракцию key-value хранилища и её реализации.
// Все записи сервиса (ссылки, статистика, сессии, счётчики) живут в одном
// плоском пространстве строковых ключей с опциональным TTL на ключ.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound возвращается, когда ключ отсутствует в хранилище
var ErrKeyNotFound = errors.New("key not found")

// Store определяет интерфейс для работы с key-value хранилищем
type Store interface {
	// Get возвращает значение по ключу или ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Put сохраняет значение по ключу; ttl == 0 означает хранение без срока
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete удаляет ключ; удаление отсутствующего ключа не является ошибкой
	Delete(ctx context.Context, key string) error
	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
	// Close закрывает соединение с хранилищем
	Close() error
}
