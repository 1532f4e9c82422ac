package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fileRecord представляет одну запись в JSON-файле
type fileRecord struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// FileStore реализует интерфейс Store поверх map с сохранением в файл.
// Каждая запись хранится отдельной JSON-строкой, файл перезаписывается
// целиком при каждом изменении.
type FileStore struct {
	mu       sync.Mutex
	entries  map[string]entry
	filePath string
	logger   *zap.Logger
}

// NewFileStore создаёт новый экземпляр FileStore и загружает существующие записи
func NewFileStore(filePath string, logger *zap.Logger) (*FileStore, error) {
	store := &FileStore{
		entries:  make(map[string]entry),
		filePath: filePath,
		logger:   logger,
	}

	// Создаём директорию, если не существует
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}
	defer file.Close()

	// Читаем файл построчно, просроченные и некорректные записи пропускаем
	now := time.Now()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record fileRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			store.logger.Warn("Skipping invalid JSON line", zap.String("line", string(scanner.Bytes())), zap.Error(err))
			continue
		}
		e := entry{value: []byte(record.Value)}
		if record.ExpiresAt > 0 {
			e.expiresAt = time.Unix(record.ExpiresAt, 0)
			if now.After(e.expiresAt) {
				continue
			}
		}
		store.entries[record.Key] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return store, nil
}

// Get возвращает значение по ключу; просроченные записи удаляются лениво
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
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

	value := make([]byte, len(e.value))
	copy(value, e.value)
	return value, nil
}

// Put сохраняет значение по ключу и переписывает файл
func (s *FileStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return s.flush()
}

// Delete удаляет ключ и переписывает файл
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flush()
}

// Ping проверяет доступность директории с файлом
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.filePath))
	return err
}

// Close сбрасывает записи на диск
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// flush переписывает файл целиком; вызывается под мьютексом
func (s *FileStore) flush() error {
	file, err := os.Create(s.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for key, e := range s.entries {
		record := fileRecord{Key: key, Value: string(e.value)}
		if !e.expiresAt.IsZero() {
			record.ExpiresAt = e.expiresAt.Unix()
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := writer.Write(data); err != nil {
			return err
		}
	}
	return writer.Flush()
}
