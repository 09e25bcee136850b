package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// Ensure RedisOddsCache implements OddsStore
var _ OddsStore = (*RedisOddsCache)(nil)

// RedisOddsCache keeps the latest aggregate per (match, bettingType,
// scope) with a TTL, so downstream consumers read fresh odds without
// hitting Postgres.
type RedisOddsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOddsCache(addr, password string, db int, ttl time.Duration) (*RedisOddsCache, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisOddsCache{client: client, ttl: ttl}, nil
}

// StoreMatchEventOdds caches the aggregate under its (match, bt, sc) key.
func (r *RedisOddsCache) StoreMatchEventOdds(ctx context.Context, odds *models.MatchEventOdds) error {
	key := aggregateKey(odds.MatchID, odds.CurrentBettingType, odds.CurrentScope)

	data, err := json.Marshal(odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds aggregate: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// GetMatchEventOdds returns the cached aggregate or nil when absent.
func (r *RedisOddsCache) GetMatchEventOdds(ctx context.Context, matchID string, bettingTypeID, scopeID int) (*models.MatchEventOdds, error) {
	data, err := r.client.Get(ctx, aggregateKey(matchID, bettingTypeID, scopeID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds aggregate: %w", err)
	}

	var odds models.MatchEventOdds
	if err := json.Unmarshal([]byte(data), &odds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds aggregate: %w", err)
	}
	return &odds, nil
}

// ListMatchIDs returns the distinct match IDs currently cached.
func (r *RedisOddsCache) ListMatchIDs(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, "odds:*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	seen := make(map[string]bool)
	var matches []string
	for _, key := range keys {
		// key format: odds:<matchID>:<bt>:<sc>
		parts := strings.Split(key, ":")
		if len(parts) >= 2 && !seen[parts[1]] {
			seen[parts[1]] = true
			matches = append(matches, parts[1])
		}
	}
	return matches, nil
}

// Close closes the Redis connection.
func (r *RedisOddsCache) Close() error {
	return r.client.Close()
}

func aggregateKey(matchID string, bettingTypeID, scopeID int) string {
	return fmt.Sprintf("odds:%s:%d:%d", matchID, bettingTypeID, scopeID)
}
