package pointsdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores the snapshot document under a single Redis key.
type RedisRepository struct {
	client redis.Cmdable
	key    string
}

// NewRedisRepository creates a repository storing the snapshot under key.
func NewRedisRepository(client redis.Cmdable, key string) *RedisRepository {
	if key == "" {
		key = "lpbot:" + DefaultSnapshotKey
	}
	return &RedisRepository{client: client, key: key}
}

// Load fetches and decodes the snapshot.
func (r *RedisRepository) Load(ctx context.Context) (*Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot from redis: %w", err)
	}
	return decodeSnapshot(data)
}

// Save overwrites the snapshot key without expiry.
func (r *RedisRepository) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}
