package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	keys   map[string]time.Duration
	setErr error
	exErr  error
}

func (f *fakeRedis) Set(_ context.Context, key string, _ interface{}, exp time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	if f.keys == nil {
		f.keys = map[string]time.Duration{}
	}
	f.keys[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.exErr != nil {
		return redis.NewIntResult(0, f.exErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisRevoker(t *testing.T) {
	fr := &fakeRedis{}
	r := NewRedisRevoker(fr)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	assert.Equal(t, time.Minute, fr.keys["revoked:jti-1"])

	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisRevoker_Errors(t *testing.T) {
	r := NewRedisRevoker(&fakeRedis{setErr: errors.New("boom"), exErr: errors.New("boom")})
	ctx := context.Background()

	assert.Error(t, r.Revoke(ctx, "x", time.Second))
	_, err := r.IsRevoked(ctx, "x")
	assert.Error(t, err)
}
