package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// PostgresStore реализует интерфейс Store поверх одной таблицы kv.
// Просроченные строки отфильтровываются при чтении, физическая очистка
// остаётся за внешним обслуживанием базы.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore создаёт новый экземпляр PostgresStore и таблицу kv
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS kv (
            key TEXT PRIMARY KEY,
            value BYTEA NOT NULL,
            expires_at TIMESTAMPTZ
        )
    `)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// newPostgresStoreWithDB оборачивает готовое соединение; используется в тестах
func newPostgresStoreWithDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// Get возвращает значение по ключу, не отдавая просроченные строки
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		s.logger.Error("Failed to get key from database", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return value, nil
}

// Put сохраняет значение по ключу через upsert
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO kv (key, value, expires_at) VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
    `, key, value, expiresAt)
	if err != nil {
		s.logger.Error("Failed to put key to database", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete удаляет ключ; отсутствие строки не является ошибкой
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = $1", key)
	if err != nil {
		s.logger.Error("Failed to delete key from database", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Ping проверяет соединение с базой данных
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
