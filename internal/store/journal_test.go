package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, inserted, err := s.Record(ctx, testCompilation("spec-a", "sql-a"))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "rec-0001", first.ID)
	assert.Equal(t, int64(1), first.Seq)

	second, inserted, err := s.Record(ctx, testCompilation("spec-b", "sql-b"))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "rec-0002", second.ID)
	assert.Equal(t, int64(2), second.Seq)
}

func TestRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, _, err := s.Record(ctx, testCompilation("spec-a", "sql-a"))
	require.NoError(t, err)

	again, inserted, err := s.Record(ctx, testCompilation("spec-a", "sql-a"))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, again)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecord_SameSpecNewSQL(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, _, err := s.Record(ctx, testCompilation("spec-a", "sql-a"))
	require.NoError(t, err)
	_, inserted, err := s.Record(ctx, testCompilation("spec-a", "sql-b"))
	require.NoError(t, err)
	assert.True(t, inserted)

	latest, err := s.Latest(ctx, "spec-a")
	require.NoError(t, err)
	assert.Equal(t, "sql-b", latest.SQLHash)
	assert.Equal(t, int64(2), latest.Seq)
}

func TestRecord_RequiresHashes(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.Record(context.Background(), Compilation{SQL: "SELECT 1;"})
	assert.Error(t, err)
}

func TestRecord_PreservesFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := testCompilation("spec-a", "sql-a")
	in.Strict = true
	_, _, err := s.Record(ctx, in)
	require.NoError(t, err)

	got, err := s.Latest(ctx, "spec-a")
	require.NoError(t, err)
	assert.Equal(t, in.Source, got.Source)
	assert.Equal(t, in.SQL, got.SQL)
	assert.True(t, got.Strict)
}

func TestList_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, h := range []string{"a", "b", "c"} {
		_, _, err := s.Record(ctx, testCompilation("spec-"+h, "sql-"+h))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "spec-c", limited[0].SpecHash)
}

func TestList_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindBySpecHash_Prefix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, _, err := s.Record(ctx, testCompilation("abc123", "sql-1"))
	require.NoError(t, err)
	_, _, err = s.Record(ctx, testCompilation("abc999", "sql-2"))
	require.NoError(t, err)
	_, _, err = s.Record(ctx, testCompilation("zzz000", "sql-3"))
	require.NoError(t, err)

	got, err := s.FindBySpecHash(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "abc999", got[0].SpecHash)
	assert.Equal(t, "abc123", got[1].SpecHash)

	got, err = s.FindBySpecHash(ctx, "abc123")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.FindBySpecHash(ctx, "")
	assert.Error(t, err)
}

func TestLatest_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Latest(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}
