package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore_PersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "key", []byte("value"), 0))
	require.NoError(t, store.Put(ctx, "temp", []byte("x"), time.Hour))
	require.NoError(t, store.Close())

	// После переоткрытия записи читаются из файла
	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	value, err := reopened.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	_, err = reopened.Get(ctx, "temp")
	assert.NoError(t, err, "record with future expiry should survive reopen")
}

func TestFileStore_ExpiredRecordsSkippedOnLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "gone", []byte("x"), time.Millisecond))
	require.NoError(t, store.Close())

	time.Sleep(1100 * time.Millisecond)

	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	_, err = reopened.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStore_InvalidLinesSkipped(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.json")

	content := `{"key":"good","value":"ok"}
not json at all
{"key":"another","value":"fine"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	value, err := store.Get(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), value)

	value, err = store.Get(ctx, "another")
	require.NoError(t, err)
	assert.Equal(t, []byte("fine"), value)
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.json")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "key", []byte("value"), 0))
	require.NoError(t, store.Delete(ctx, "key"))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	_, err = reopened.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrKeyNotFound, "deleted key should not come back after reopen")
}

func TestFileStore_MissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.json")

	// Отсутствующий файл не ошибка, директория создаётся
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, store.Ping(ctx))
}
