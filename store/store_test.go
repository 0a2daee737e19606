package store_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-campus/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()

	_, ok := s.Access()
	assert.False(t, ok)
	_, ok = s.Refresh()
	assert.False(t, ok)

	require.NoError(t, s.Save("access-1", "refresh-1"))

	access, ok := s.Access()
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := s.Refresh()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)
}

func TestMemoryStoreSaveOverwritesPair(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save("access-1", "refresh-1"))
	require.NoError(t, s.Save("access-2", "refresh-1"))

	access, _ := s.Access()
	refresh, _ := s.Refresh()
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-1", refresh)
}

func TestMemoryStoreClear(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save("access-1", "refresh-1"))
	require.NoError(t, s.Clear())

	_, ok := s.Access()
	assert.False(t, ok)
	_, ok = s.Refresh()
	assert.False(t, ok)
}

func TestMemoryStoreEmptyTokenReadsAsAbsent(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save("", "refresh-1"))

	_, ok := s.Access()
	assert.False(t, ok)
	_, ok = s.Refresh()
	assert.True(t, ok)
}

// openTestDB opens a named in-memory database so each test gets isolated
// storage that still survives additional stores on the same handle.
func openTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	db, err := store.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestBunStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "roundtrip")

	s, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)

	_, ok := s.Access()
	assert.False(t, ok)

	require.NoError(t, s.Save("access-1", "refresh-1"))

	access, ok := s.Access()
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := s.Refresh()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)
}

func TestBunStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "reopen")

	s, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s.Save("access-1", "refresh-1"))

	// A second store on the same database picks the persisted pair back up.
	reopened, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)

	access, ok := reopened.Access()
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := reopened.Refresh()
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)
}

func TestBunStoreSaveKeepsSingleRow(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "singlerow")

	s, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s.Save("access-1", "refresh-1"))
	require.NoError(t, s.Save("access-2", "refresh-1"))

	count, err := db.NewSelect().Model((*store.Credential)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	access, _ := s.Access()
	assert.Equal(t, "access-2", access)
}

func TestBunStoreClearRemovesRowAndCache(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, "clear")

	s, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s.Save("access-1", "refresh-1"))
	require.NoError(t, s.Clear())

	_, ok := s.Access()
	assert.False(t, ok)

	count, err := db.NewSelect().Model((*store.Credential)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// A clean reopen sees nothing either.
	reopened, err := store.NewBunStore(ctx, db)
	require.NoError(t, err)
	_, ok = reopened.Refresh()
	assert.False(t, ok)
}
