package repository

import (
	"context"
	"sync"
	"time"
)

// entry хранит значение и момент истечения; нулевое время означает бессрочное хранение
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore реализует интерфейс Store с использованием map
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore создаёт новый экземпляр MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// Get возвращает значение по ключу; просроченные записи удаляются лениво
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, ErrKeyNotFound
	}

	// Копируем значение, чтобы вызывающий не мог изменить хранимые данные
	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, nil
}

// Put сохраняет значение по ключу с опциональным TTL
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete удаляет ключ из хранилища
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Ping всегда сообщает о доступности
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close освобождает хранилище
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	return nil
}
