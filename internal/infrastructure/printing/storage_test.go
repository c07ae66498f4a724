package printing

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStorage(t *testing.T) *FileSystemStorage {
	t.Helper()
	storage, err := NewFileSystemStorage(&FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/print/streams",
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	storage.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return storage
}

func TestNewFileSystemStorage(t *testing.T) {
	t.Run("with default URL", func(t *testing.T) {
		dir := t.TempDir()
		storage, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: dir})
		require.NoError(t, err)
		assert.Equal(t, dir, storage.config.BasePath)
		assert.Equal(t, "/api/v1/print/streams", storage.config.BaseURL)
	})

	t.Run("creates missing base directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		_, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: dir})
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestStreamKey(t *testing.T) {
	tenant := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	job := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := StreamKey(tenant, job, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "11111111-1111-1111-1111-111111111111/2024/03/22222222-2222-2222-2222-222222222222.bin", key)
}

func TestFileSystemStorage_StoreAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	data := []byte{0x1B, '@', 'o', 'l', 'a', '\n'}

	result, err := storage.Store(ctx, &StoreRequest{TenantID: uuid.New(), JobID: uuid.New(), Data: data})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.Contains(t, result.Path, "/2024/03/")
	assert.Equal(t, "/api/v1/print/streams/"+result.Path, result.URL)

	rc, err := storage.Get(ctx, result.Path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileSystemStorage_StoreDatedKey(t *testing.T) {
	storage := newTestStorage(t)
	tenant, job := uuid.New(), uuid.New()
	at := time.Date(2023, 11, 30, 23, 0, 0, 0, time.UTC)

	result, err := storage.Store(context.Background(), &StoreRequest{TenantID: tenant, JobID: job, Data: []byte{1}, At: at})
	require.NoError(t, err)
	assert.Equal(t, StreamKey(tenant, job, at), result.Path)
}

func TestFileSystemStorage_StoreValidation(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *StoreRequest
	}{
		{"nil request", nil},
		{"missing tenant", &StoreRequest{JobID: uuid.New(), Data: []byte{1}}},
		{"missing job", &StoreRequest{TenantID: uuid.New(), Data: []byte{1}}},
		{"empty data", &StoreRequest{TenantID: uuid.New(), JobID: uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storage.Store(ctx, tt.req)
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, ErrCodeStorageFailed, renderErr.Code)
		})
	}
}

func TestFileSystemStorage_CancelledContext(t *testing.T) {
	storage := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.Store(ctx, &StoreRequest{TenantID: uuid.New(), JobID: uuid.New(), Data: []byte{1}})
	assert.Error(t, err)
	_, err = storage.Get(ctx, "x.bin")
	assert.Error(t, err)
	assert.Error(t, storage.Delete(ctx, "x.bin"))
}

func TestFileSystemStorage_RejectsTraversal(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for _, path := range []string{"../etc/passwd", "a/../../b.bin", "/etc/passwd", "..\\x.bin", ""} {
		_, err := storage.Get(ctx, path)
		assert.Error(t, err, path)
		assert.Error(t, storage.Delete(ctx, path), path)
	}
}

func TestFileSystemStorage_GetMissing(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "tenant/2024/03/missing.bin")
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeNotFound, renderErr.Code)
}

func TestFileSystemStorage_Delete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	result, err := storage.Store(ctx, &StoreRequest{TenantID: uuid.New(), JobID: uuid.New(), Data: []byte{1, 2}})
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, result.Path))
	_, err = storage.Get(ctx, result.Path)
	assert.Error(t, err)

	// deleting twice is fine
	assert.NoError(t, storage.Delete(ctx, result.Path))
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	storage := newTestStorage(t)
	storage.now = time.Now
	ctx := context.Background()

	old, err := storage.Store(ctx, &StoreRequest{TenantID: uuid.New(), JobID: uuid.New(), Data: []byte{1}})
	require.NoError(t, err)
	fresh, err := storage.Store(ctx, &StoreRequest{TenantID: uuid.New(), JobID: uuid.New(), Data: []byte{2}})
	require.NoError(t, err)

	oldPath := filepath.Join(storage.config.BasePath, filepath.FromSlash(old.Path))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	other := filepath.Join(storage.config.BasePath, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0o644))
	require.NoError(t, os.Chtimes(other, past, past))

	deleted, err := storage.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, filepath.Join(storage.config.BasePath, filepath.FromSlash(fresh.Path)))
	assert.FileExists(t, other)
}
