package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ""), mr
}

func Test_RedisStore(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Load(ctx, "S1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "S1", Values{"oauth_token": "T1", "logged_in": true}, time.Minute))
	assert.True(t, mr.Exists("golem:session:S1"))
	assert.Equal(t, time.Minute, mr.TTL("golem:session:S1"))

	got, err := s.Load(ctx, "S1")
	assert.NoError(t, err)
	assert.Equal(t, Values{"oauth_token": "T1", "logged_in": true}, got)

	mr.FastForward(2 * time.Minute)
	_, err = s.Load(ctx, "S1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_RedisStore_Delete(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "S1", Values{"user_name": "alice"}, time.Hour))
	assert.NoError(t, s.Delete(ctx, "S1"))
	assert.False(t, mr.Exists("golem:session:S1"))
	assert.NoError(t, s.Delete(ctx, "S1"))
}

func Test_RedisStore_Load_corrupt(t *testing.T) {
	s, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set("golem:session:S1", "not json"))

	_, err := s.Load(context.Background(), "S1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
