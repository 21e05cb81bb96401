package rediskv_test

import (
	"context"
	"errors"
	"testing"

	"go-thread/internal/storage"
	"go-thread/internal/storage/rediskv"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("thread/v1/meta").SetVal(`{"schema_version":1}`)

		v, err := rediskv.New(rdb).Get(ctx, "thread/v1/meta")
		require.NoError(t, err)
		assert.Equal(t, `{"schema_version":1}`, string(v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("thread/v1/meta").RedisNil()

		_, err := rediskv.New(rdb).Get(ctx, "thread/v1/meta")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k").SetErr(errors.New("conn refused"))

		_, err := rediskv.New(rdb).Get(ctx, "k")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStore_PutDelete(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	mock.ExpectSet("k", []byte("v"), 0).SetVal("OK")
	mock.ExpectDel("k").SetVal(1)

	s := rediskv.New(rdb)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()

	mock.ExpectScan(0, "thread/v1/users/*", 100).SetVal([]string{"thread/v1/users/b"}, 7)
	mock.ExpectScan(7, "thread/v1/users/*", 100).SetVal([]string{"thread/v1/users/a", "thread/v1/users/c"}, 0)
	mock.ExpectMGet("thread/v1/users/a", "thread/v1/users/b", "thread/v1/users/c").
		SetVal([]interface{}{"A", "B", nil})

	entries, err := rediskv.New(rdb).List(ctx, "thread/v1/users/")
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{
		{Key: "thread/v1/users/a", Value: []byte("A")},
		{Key: "thread/v1/users/b", Value: []byte("B")},
	}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListDeduplicatesScanKeys(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()

	mock.ExpectScan(0, "thread/v1/outbox/*", 100).SetVal([]string{"thread/v1/outbox/e1", "thread/v1/outbox/e2"}, 3)
	mock.ExpectScan(3, "thread/v1/outbox/*", 100).SetVal([]string{"thread/v1/outbox/e1"}, 0)
	mock.ExpectMGet("thread/v1/outbox/e1", "thread/v1/outbox/e2").
		SetVal([]interface{}{"one", "two"})

	entries, err := rediskv.New(rdb).List(ctx, "thread/v1/outbox/")
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{
		{Key: "thread/v1/outbox/e1", Value: []byte("one")},
		{Key: "thread/v1/outbox/e2", Value: []byte("two")},
	}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
