package depcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// RedisStore keeps one Redis list per component ref. Intended for analysis
// runs that spread subtrees across workers sharing a cache instance; the
// append-only list semantics match the stream contract directly.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces the stream keys, so several analyses can share one
	// Redis instance. Defaults to "dsm".
	Prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "dsm"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(ref int64) string {
	return fmt.Sprintf("%s:deps:%d", s.prefix, ref)
}

// Append pushes deps onto the list owned by ref.
func (s *RedisStore) Append(ctx context.Context, ref int64, deps ...graph.Dependency) error {
	if len(deps) == 0 {
		return nil
	}
	values := make([]interface{}, len(deps))
	for i, dep := range deps {
		raw, err := json.Marshal(dep)
		if err != nil {
			return fmt.Errorf("encode dependency: %w", err)
		}
		values[i] = raw
	}
	return s.client.RPush(ctx, s.key(ref), values...).Err()
}

// Iterate replays the list owned by ref in push order.
func (s *RedisStore) Iterate(ctx context.Context, ref int64, fn func(graph.Dependency) error) error {
	raws, err := s.client.LRange(ctx, s.key(ref), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read stream %d: %w", ref, err)
	}
	for _, raw := range raws {
		var dep graph.Dependency
		if err := json.Unmarshal([]byte(raw), &dep); err != nil {
			return fmt.Errorf("decode stream %d: %w", ref, err)
		}
		if err := fn(dep); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
