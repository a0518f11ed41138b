package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	s, err := NewRedisStorage("redis://"+mr.Addr(), "limpay:limiter:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestRedisStorageRoundTrip(t *testing.T) {
	s, mr := newTestStorage(t)

	val, err := s.Get("10.0.0.1")
	require.NoError(t, err)
	require.Nil(t, val)

	require.NoError(t, s.Set("10.0.0.1", []byte("3"), time.Minute))
	require.True(t, mr.Exists("limpay:limiter:10.0.0.1"))

	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("10.0.0.1"))
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestRedisStorageExpires(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	val, err := s.Get("k")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestRedisStorageResetKeepsOtherPrefixes(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:key", "x"))

	require.NoError(t, s.Reset())
	require.False(t, mr.Exists("limpay:limiter:a"))
	require.False(t, mr.Exists("limpay:limiter:b"))
	require.True(t, mr.Exists("other:key"))
}

func TestNewRedisStorageRejectsBadURL(t *testing.T) {
	_, err := NewRedisStorage("http://not-redis", "p:")
	require.Error(t, err)
}
