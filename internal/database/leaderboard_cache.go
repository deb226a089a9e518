package database

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models"
)

const (
	leaderboardKey = "leaderboard:top"
	leaderboardTTL = 10 * time.Minute
)

// LeaderboardCache は上位ハイスコア一覧を Redis にキャッシュします。
// nil の *LeaderboardCache は常にキャッシュミスとして振る舞います。
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectLeaderboardCache は Redis に接続します。接続できない場合は警告を出して nil を返し、
// 呼び出し側は PostgreSQL のみで動作を続けます。
func ConnectLeaderboardCache(ctx context.Context, addr, password string) *LeaderboardCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis: %v. Falling back to PostgreSQL only.", err)
		client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return NewLeaderboardCache(client, leaderboardTTL)
}

// NewLeaderboardCache は既存のクライアントからキャッシュを作成します。
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Get はキャッシュされた一覧を返します。キャッシュがない場合やエラー時は false を返します。
func (c *LeaderboardCache) Get(ctx context.Context) ([]models.HighScoreResponse, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[REDIS] Warning: leaderboard lookup failed: %v", err)
		}
		return nil, false
	}

	var scores []models.HighScoreResponse
	if err := json.Unmarshal(data, &scores); err != nil {
		log.Printf("[REDIS] Warning: cached leaderboard is corrupt: %v", err)
		return nil, false
	}
	return scores, true
}

// Set は一覧をキャッシュします。失敗しても呼び出し側には返しません。
func (c *LeaderboardCache) Set(ctx context.Context, scores []models.HighScoreResponse) {
	if c == nil {
		return
	}
	data, err := json.Marshal(scores)
	if err != nil {
		log.Printf("[REDIS] Warning: failed to encode leaderboard: %v", err)
		return
	}
	if err := c.client.Set(ctx, leaderboardKey, data, c.ttl).Err(); err != nil {
		log.Printf("[REDIS] Warning: failed to cache leaderboard: %v", err)
	}
}

// Invalidate はキャッシュを破棄します。
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, leaderboardKey).Err(); err != nil {
		log.Printf("[REDIS] Warning: failed to invalidate leaderboard: %v", err)
	}
}

// Close は Redis 接続を閉じます。
func (c *LeaderboardCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
