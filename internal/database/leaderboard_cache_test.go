package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

func TestLeaderboardCache_NilIsAlwaysMiss(t *testing.T) {
	var cache *LeaderboardCache
	ctx := context.Background()

	cache.Set(ctx, []models.HighScoreResponse{{PlayerName: "alice", Score: 1}})
	cache.Invalidate(ctx)
	_, ok := cache.Get(ctx)

	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}

func TestLeaderboardCache_UnreachableServerIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewLeaderboardCache(client, time.Minute)
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, []models.HighScoreResponse{{PlayerName: "alice", Score: 1}})
	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestConnectLeaderboardCache_ReturnsNilWhenUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.Nil(t, ConnectLeaderboardCache(ctx, "127.0.0.1:1", ""))
}

// newMiniredisCache はプロセス内の Redis サーバーに接続したキャッシュを作成します。
func newMiniredisCache(t *testing.T, ttl time.Duration) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	cache := NewLeaderboardCache(client, ttl)
	t.Cleanup(func() { cache.Close() })
	return cache, server
}

func TestLeaderboardCache_SetGetInvalidate(t *testing.T) {
	cache, server := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	scores := []models.HighScoreResponse{
		{Rank: 1, PlayerName: "alice", Score: 1200},
		{Rank: 2, PlayerName: "bob", Score: 300},
	}
	cache.Set(ctx, scores)

	require.True(t, server.Exists(leaderboardKey))
	assert.Equal(t, time.Minute, server.TTL(leaderboardKey))

	got, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, scores, got)

	cache.Invalidate(ctx)
	assert.False(t, server.Exists(leaderboardKey))
	_, ok = cache.Get(ctx)
	assert.False(t, ok)
}

func TestLeaderboardCache_ExpiresAfterTTL(t *testing.T) {
	cache, server := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, []models.HighScoreResponse{{Rank: 1, PlayerName: "alice", Score: 40}})
	server.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestLeaderboardCache_CorruptEntryIsMiss(t *testing.T) {
	cache, server := newMiniredisCache(t, time.Minute)
	require.NoError(t, server.Set(leaderboardKey, "{not json"))

	_, ok := cache.Get(context.Background())
	assert.False(t, ok)
}

func TestConnectLeaderboardCache_Connects(t *testing.T) {
	server := miniredis.RunT(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cache := ConnectLeaderboardCache(ctx, server.Addr(), "")
	require.NotNil(t, cache)
	defer cache.Close()

	cache.Set(ctx, []models.HighScoreResponse{})
	got, ok := cache.Get(ctx)
	assert.True(t, ok)
	assert.Empty(t, got)
}
