// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "canvas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	s := openTestSQLite(t)

	var count int
	err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'blobs'`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", []byte(`[1,2]`)))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	require.NoError(t, s.Put(ctx, "k", []byte(`[3]`)))
	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(got))
}

func testUpdate(t *testing.T, s Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "a", []byte(`old-a`)))

	err := s.Update(ctx, func(tx Tx) error {
		v, err := tx.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "old-a", string(v))

		require.NoError(t, tx.Put("a", []byte(`new-a`)))
		require.NoError(t, tx.Put("b", []byte(`new-b`)))

		v, err = tx.Get("b")
		require.NoError(t, err)
		assert.Equal(t, "new-b", string(v), "writes are visible inside the transaction")
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-a", string(got))
	got, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "new-b", string(got))

	errAbort := errors.New("abort")
	err = s.Update(ctx, func(tx Tx) error {
		require.NoError(t, tx.Put("a", []byte(`lost`)))
		require.NoError(t, tx.Put("c", []byte(`lost`)))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new-a", string(got), "failed update writes nothing")
	_, err = s.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteGetPut(t *testing.T) {
	testStore(t, openTestSQLite(t))
}

func TestMemoryGetPut(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLiteUpdate(t *testing.T) {
	testUpdate(t, openTestSQLite(t))
}

func TestMemoryUpdate(t *testing.T) {
	testUpdate(t, NewMemory())
}

func TestSQLiteUpdateAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")
	ctx := context.Background()

	a, err := OpenSQLite(path)
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLite(path)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Update(ctx, func(tx Tx) error {
		return tx.Put("notes", []byte(`[1]`))
	}))

	require.NoError(t, b.Update(ctx, func(tx Tx) error {
		v, err := tx.Get("notes")
		if err != nil {
			return err
		}
		return tx.Put("notes", append(v[:len(v)-1], []byte(`,2]`)...))
	}))

	got, err := a.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
