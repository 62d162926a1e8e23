package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"padel-backend/internal/config"
	domain "padel-backend/internal/domain/registration"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a read-side cache for the collaborator lookups the
// registration flow performs on every write (tournament category for price
// and scope, player existence). Registration state itself is never cached;
// every registration read and write goes to the database.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
	}
}

func NewRedisCacheWithConfig(cfg *config.CacheConfig) *RedisCache {
	return NewRedisCache(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), cfg.Password, cfg.DB)
}

func categoryKey(id uint) string { return fmt.Sprintf("category:details:%d", id) }
func playerKey(id uint) string   { return fmt.Sprintf("player:details:%d", id) }

// GetCategory returns the cached tournament category, or an error on miss
func (r *RedisCache) GetCategory(ctx context.Context, id uint) (*domain.TournamentCategory, error) {
	val, err := r.client.Get(ctx, categoryKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("category not cached")
		}
		return nil, fmt.Errorf("failed to get category from cache: %w", err)
	}

	var category domain.TournamentCategory
	if err := json.Unmarshal([]byte(val), &category); err != nil {
		return nil, fmt.Errorf("invalid category value in cache: %w", err)
	}
	return &category, nil
}

func (r *RedisCache) SetCategory(ctx context.Context, category *domain.TournamentCategory, ttl time.Duration) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}
	if err := r.client.Set(ctx, categoryKey(category.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set category in cache: %w", err)
	}
	return nil
}

// GetPlayer returns the cached player, or an error on miss
func (r *RedisCache) GetPlayer(ctx context.Context, id uint) (*domain.Player, error) {
	val, err := r.client.Get(ctx, playerKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("player not cached")
		}
		return nil, fmt.Errorf("failed to get player from cache: %w", err)
	}

	var player domain.Player
	if err := json.Unmarshal([]byte(val), &player); err != nil {
		return nil, fmt.Errorf("invalid player value in cache: %w", err)
	}
	return &player, nil
}

func (r *RedisCache) SetPlayer(ctx context.Context, player *domain.Player, ttl time.Duration) error {
	data, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}
	if err := r.client.Set(ctx, playerKey(player.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set player in cache: %w", err)
	}
	return nil
}

// InvalidateCategory drops a cached category, e.g. after a price change
func (r *RedisCache) InvalidateCategory(ctx context.Context, id uint) error {
	return r.client.Del(ctx, categoryKey(id)).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
