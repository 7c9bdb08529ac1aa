package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) (*miniredis.Miniredis, *SessionStorage) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewSessionStorage(client, "hrm:session:client-1:", 0)
}

func TestSessionStorage_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	_, storage := setupStorage(t)

	require.NoError(t, storage.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))

	token, record, ok, err := storage.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
	assert.JSONEq(t, `{"id":"u-1"}`, string(record))
}

func TestSessionStorage_ReadEmptyIsAbsent(t *testing.T) {
	_, storage := setupStorage(t)

	_, _, ok, err := storage.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStorage_PartialPresenceIsAbsent(t *testing.T) {
	ctx := context.Background()
	mr, storage := setupStorage(t)

	require.NoError(t, storage.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))
	mr.Del("hrm:session:client-1:token")

	_, _, ok, err := storage.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a lone user record must not read as a session")
}

func TestSessionStorage_Clear(t *testing.T) {
	ctx := context.Background()
	mr, storage := setupStorage(t)

	require.NoError(t, storage.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))
	require.NoError(t, storage.Clear(ctx))

	_, _, ok, err := storage.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("hrm:session:client-1:token"))
	assert.False(t, mr.Exists("hrm:session:client-1:user"))
}

func TestSessionStorage_ClearWithoutSessionIsNoop(t *testing.T) {
	_, storage := setupStorage(t)
	assert.NoError(t, storage.Clear(context.Background()))
}

func TestSessionStorage_WriteReplacesPrior(t *testing.T) {
	ctx := context.Background()
	_, storage := setupStorage(t)

	require.NoError(t, storage.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))
	require.NoError(t, storage.Write(ctx, "tok-2", []byte(`{"id":"u-2"}`)))

	token, record, ok, err := storage.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-2", token)
	assert.JSONEq(t, `{"id":"u-2"}`, string(record))
}

func TestSessionStorage_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	first := NewSessionStorage(client, "hrm:session:client-1:", 0)
	second := NewSessionStorage(client, "hrm:session:client-2:", 0)

	require.NoError(t, first.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))

	_, _, ok, err := second.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStorage_TTLExpiresBothKeys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storage := NewSessionStorage(client, "hrm:session:client-1:", time.Minute)
	require.NoError(t, storage.Write(ctx, "tok-1", []byte(`{"id":"u-1"}`)))

	mr.FastForward(2 * time.Minute)
	_, _, ok, err := storage.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
