package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/models"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := OpenSnapshotStore(filepath.Join(t.TempDir(), "nested", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotStoreEmpty(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := &models.Catalog{
		Categories: []models.Category{
			{Title: "Dranken", Items: []models.Item{
				{Name: "A Cola", Price: models.PriceOf(2.5), OnSale: true},
				{Name: "Thee", Price: models.PriceOf("2,00")},
			}},
		},
		LastUpdated: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Source:      SourceDatabase,
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Latest(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b models.Price) bool {
		return a.String() == b.String()
	}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotStoreKeepsNewest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Save(ctx, &models.Catalog{
			Categories: []models.Category{{Title: string(rune('A' + i))}},
			Source:     "test",
		}))
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "O", latest.Categories[0].Title)
}
