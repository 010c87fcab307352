package kvstore

import (
	"context"
	"testing"

	"github.com/looply/looply-backend/pkg/database"
	"github.com/looply/looply-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID    string  `json:"id"`
	Hours float64 `json:"hours"`
}

// runStoreContract exercises the behaviour every backend must share
func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "eod:missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "employee:1", []byte(`{"id":"1"}`)))

		got, err := s.Get(ctx, "employee:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"1"}`, string(got))
	})

	t.Run("set overwrites in place", func(t *testing.T) {
		require.NoError(t, SetJSON(ctx, s, "eod:e1-2024-01-15", doc{ID: "e1-2024-01-15", Hours: 7}))
		require.NoError(t, SetJSON(ctx, s, "eod:e1-2024-01-15", doc{ID: "e1-2024-01-15", Hours: 8.5}))

		got, err := GetJSON[doc](ctx, s, "eod:e1-2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, 8.5, got.Hours)

		all, err := ScanJSON[doc](ctx, s, "eod:e1-")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("scan by prefix is ordered and literal", func(t *testing.T) {
		require.NoError(t, SetJSON(ctx, s, "eod:e2-2024-01-14", doc{ID: "b"}))
		require.NoError(t, SetJSON(ctx, s, "eod:e2-2024-01-13", doc{ID: "a"}))
		require.NoError(t, SetJSON(ctx, s, "eod:e2_x", doc{ID: "underscore"}))
		require.NoError(t, SetJSON(ctx, s, "eodx:e2-2024-01-13", doc{ID: "other"}))

		entries, err := s.ScanByPrefix(ctx, "eod:e2-")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "eod:e2-2024-01-13", entries[0].Key)
		assert.Equal(t, "eod:e2-2024-01-14", entries[1].Key)

		entries, err = s.ScanByPrefix(ctx, "eod:e2_")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "eod:e2_x", entries[0].Key)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "company:1", []byte(`{}`)))
		require.NoError(t, s.Remove(ctx, "company:1"))

		_, err := s.Get(ctx, "company:1")
		assert.ErrorIs(t, err, ErrNotFound)

		// Removing an absent key is not an error.
		assert.NoError(t, s.Remove(ctx, "company:1"))
	})

	t.Run("scan skips undecodable documents", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "user:good@acme.test", []byte(`{"id":"good"}`)))
		require.NoError(t, s.Set(ctx, "user:bad@acme.test", []byte(`"not an object"`)))

		docs, err := ScanJSON[doc](ctx, s, "user:")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "good", docs[0].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte(`{"id":"1"}`)
	require.NoError(t, s.Set(ctx, "k", value))
	value[2] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))
}

func TestSQLStore_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSQLStore(db)
	require.NoError(t, s.Migrate(context.Background()))

	runStoreContract(t, s)
	assert.Equal(t, "up", s.Health(context.Background())["status"])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `eod:e1\_a\%b\\`, escapeLike(`eod:e1_a%b\`))
	assert.Equal(t, "eod:", escapeLike("eod:"))
}
