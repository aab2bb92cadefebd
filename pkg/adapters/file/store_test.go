package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tauribridge/pkg/adapters/file"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunRecordStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	err := store.SaveDriver(context.Background(), domain.DriverRecord{PID: 10, PGID: 10, Port: 4444})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "drivers", "4444.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pgid: 10")
}

func TestFileStore_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)

	sessions := filepath.Join(dir, "sessions")
	require.NoError(t, os.MkdirAll(sessions, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sessions, "tmp-x-123.yaml"), []byte("id: partial"), 0o644))

	records, err := store.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStore_RejectsInvalidKeys(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.SaveDriver(ctx, domain.DriverRecord{PID: 1}))
	assert.Error(t, store.SaveSession(ctx, domain.SessionRecord{}))
}
