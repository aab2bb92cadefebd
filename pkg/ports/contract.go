package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore implementation
// adheres to the defined interface contract.
func RunRecordStoreContract(t *testing.T, store RecordStore) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000000")

	t.Run("Save and Load Driver", func(t *testing.T) {
		rec := domain.DriverRecord{
			PID:       4242,
			PGID:      4242,
			Port:      14444,
			Path:      "/home/test/.cargo/bin/tauri-driver",
			Owner:     "test-host:1",
			StartedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, store.SaveDriver(ctx, rec))

		loaded, err := store.LoadDriver(ctx, rec.Port)
		require.NoError(t, err)
		assert.Equal(t, rec.PID, loaded.PID)
		assert.Equal(t, rec.PGID, loaded.PGID)
		assert.Equal(t, rec.Path, loaded.Path)
		assert.True(t, rec.StartedAt.Equal(loaded.StartedAt), "started_at should survive a round trip")

		drivers, err := store.ListDrivers(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, drivers)

		require.NoError(t, store.DeleteDriver(ctx, rec.Port))
		_, err = store.LoadDriver(ctx, rec.Port)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Load Missing Driver", func(t *testing.T) {
		_, err := store.LoadDriver(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Delete Missing Is Not An Error", func(t *testing.T) {
		assert.NoError(t, store.DeleteDriver(ctx, 2))
		assert.NoError(t, store.DeleteSession(ctx, "missing-"+suffix))
	})

	t.Run("Sessions", func(t *testing.T) {
		id1 := "tauri_contract_1_" + suffix
		id2 := "tauri_contract_2_" + suffix
		defer func() {
			_ = store.DeleteSession(ctx, id1)
			_ = store.DeleteSession(ctx, id2)
		}()

		require.NoError(t, store.SaveSession(ctx, domain.SessionRecord{ID: id1, Application: "/bin/app", Current: true}))
		require.NoError(t, store.SaveSession(ctx, domain.SessionRecord{ID: id2, Application: "/bin/app"}))

		// Overwrite keeps a single record per ID.
		require.NoError(t, store.SaveSession(ctx, domain.SessionRecord{ID: id1, Application: "/bin/app", Current: false}))

		records, err := store.ListSessions(ctx)
		require.NoError(t, err)

		seen := map[string]domain.SessionRecord{}
		for _, r := range records {
			seen[r.ID] = r
		}
		assert.Contains(t, seen, id1)
		assert.Contains(t, seen, id2)
		assert.False(t, seen[id1].Current)

		require.NoError(t, store.DeleteSession(ctx, id1))
		records, err = store.ListSessions(ctx)
		require.NoError(t, err)
		for _, r := range records {
			assert.NotEqual(t, id1, r.ID)
		}
	})
}
