package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the Store contract against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok, "fresh store has no session")

	require.NoError(t, s.Save(ctx, "tok-1"))
	tok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	require.NoError(t, s.Save(ctx, "tok-2"))
	tok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok, "save overwrites")

	require.NoError(t, s.Clear(ctx))
	tok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Clear(ctx), "clearing twice is fine")

	require.NoError(t, s.Save(ctx, "   "))
	tok, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok, "blank token counts as absent")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "nested", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s1, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.Save(ctx, "persisted"))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	tok, err := s2.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", tok)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("BOOST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BOOST_TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), addr, "gamingboost:test:"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	require.NoError(t, closeFn())

	s, closeFn, err = Open(ctx, Options{SQLitePath: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, closeFn())

	_, _, err = Open(ctx, Options{Backend: "etcd"})
	assert.Error(t, err)

	_, _, err = Open(ctx, Options{Backend: BackendRedis})
	assert.Error(t, err, "redis needs an address")
}
