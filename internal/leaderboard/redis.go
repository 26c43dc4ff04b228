package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/pagequiz/internal/player"
)

// XPKey is the sorted set holding player XP.
const XPKey = "leaderboard:xp"

// RedisBoard keeps the ranking in a Redis sorted set.
type RedisBoard struct {
	client *redis.Client
	key    string
}

// NewRedisBoard wraps an existing client.
func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client, key: XPKey}
}

// DialRedis connects to the server at url (redis://...) and verifies the
// connection with a PING.
func DialRedis(ctx context.Context, url string) (*RedisBoard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisBoard(client), nil
}

func (b *RedisBoard) Record(ctx context.Context, username string, xp int) error {
	return b.client.ZAdd(ctx, b.key, redis.Z{
		Score:  float64(xp),
		Member: username,
	}).Err()
}

func (b *RedisBoard) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultSize
	}
	results, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(results))
	for i, r := range results {
		name, _ := r.Member.(string)
		entries[i] = Entry{Rank: i + 1, Username: name, XP: int(r.Score)}
	}
	return entries, nil
}

// PlayerLister lists every stored player.
type PlayerLister interface {
	ListPlayers(ctx context.Context) ([]*player.Snapshot, error)
}

// Sync replaces the sorted set with the XP of every player in src, in one
// MULTI/EXEC round trip. The player table is authoritative, so names that
// no longer exist are dropped. It returns the number of ranked players.
func (b *RedisBoard) Sync(ctx context.Context, src PlayerLister) (int, error) {
	players, err := src.ListPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list players: %w", err)
	}

	members := make([]redis.Z, 0, len(players))
	for _, p := range players {
		members = append(members, redis.Z{Score: float64(p.XP), Member: p.Username})
	}

	pipe := b.client.TxPipeline()
	pipe.Del(ctx, b.key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, b.key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("sync leaderboard: %w", err)
	}
	return len(members), nil
}

// Close releases the client.
func (b *RedisBoard) Close() error {
	return b.client.Close()
}
