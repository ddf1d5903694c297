package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/straye-as/pipeline-api/internal/config"
	"github.com/straye-as/pipeline-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ============================================================================
// Storage Interface Tests
// ============================================================================

func TestStorageInterfaceCompliance(t *testing.T) {
	var _ storage.Storage = (*storage.LocalStorage)(nil)
	var _ storage.Storage = (*storage.AzureBlobStorage)(nil)
	var _ storage.Storage = (*storage.RedisStorage)(nil)
	var _ storage.Storage = (*storage.MongoStorage)(nil)
}

func TestNewStorage_Modes(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	s, err := storage.NewStorage(ctx, &config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)

	_, err = storage.NewStorage(ctx, &config.StorageConfig{Mode: "azure"}, logger)
	assert.ErrorContains(t, err, "connection string required")

	_, err = storage.NewStorage(ctx, &config.StorageConfig{Mode: "mongo"}, logger)
	assert.ErrorContains(t, err, "mongo uri required")

	_, err = storage.NewStorage(ctx, &config.StorageConfig{Mode: "ftp"}, logger)
	assert.ErrorContains(t, err, "unsupported storage mode")
}

// ============================================================================
// LocalStorage Tests
// ============================================================================

func TestNewLocalStorage_CreatesDirectory(t *testing.T) {
	basePath := filepath.Join(t.TempDir(), "state")

	ls, err := storage.NewLocalStorage(basePath)

	require.NoError(t, err)
	assert.NotNil(t, ls)

	info, err := os.Stat(basePath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	tempDir := t.TempDir()
	ls, err := storage.NewLocalStorage(tempDir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     string
		content []byte
	}{
		{name: "top level key", key: "crm_clients.json", content: []byte(`[{"id":1}]`)},
		{name: "nested key", key: "snapshots/clients-20251115-080000.csv", content: []byte("Client Name,Email")},
		{name: "empty object", key: "empty.txt", content: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, err := ls.Upload(context.Background(), tt.key, "application/octet-stream", bytes.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.content)), size)

			reader, err := ls.Download(context.Background(), tt.key)
			require.NoError(t, err)
			defer reader.Close()

			got, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)
		})
	}
}

func TestLocalStorage_UploadReplacesAndLeavesNoTempFiles(t *testing.T) {
	tempDir := t.TempDir()
	ls, err := storage.NewLocalStorage(tempDir)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = ls.Upload(ctx, "crm_clients.json", "application/json", strings.NewReader("first version"))
	require.NoError(t, err)
	_, err = ls.Upload(ctx, "crm_clients.json", "application/json", strings.NewReader("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(tempDir, "crm_clients.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_Download_NotFound(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	reader, err := ls.Download(context.Background(), "missing.json")

	assert.Nil(t, reader)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestLocalStorage_RejectsKeysOutsideBase(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Upload(context.Background(), "../escape.json", "application/json", strings.NewReader("x"))
	assert.ErrorContains(t, err, "invalid storage key")

	_, err = ls.Download(context.Background(), "/etc/passwd")
	assert.ErrorContains(t, err, "invalid storage key")
}

func TestLocalStorage_Delete_Idempotent(t *testing.T) {
	tempDir := t.TempDir()
	ls, err := storage.NewLocalStorage(tempDir)
	require.NoError(t, err)

	_, err = ls.Upload(context.Background(), "delete-me.txt", "text/plain", strings.NewReader("bye"))
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), "delete-me.txt"))
	assert.NoError(t, ls.Delete(context.Background(), "delete-me.txt"))

	_, err = os.Stat(filepath.Join(tempDir, "delete-me.txt"))
	assert.True(t, os.IsNotExist(err))
}
