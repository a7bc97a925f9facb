package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "invoicemaker:preview:"

// RedisRepository stores previews as JSON with a key TTL equal to the
// retention window, so Redis does the sweeping.
type RedisRepository struct {
	client    redis.UniversalClient
	retention time.Duration
	prefix    string
}

func NewRedisRepository(client redis.UniversalClient, retention time.Duration) *RedisRepository {
	return &RedisRepository{client: client, retention: retention, prefix: redisKeyPrefix}
}

func (r *RedisRepository) key(id string) string {
	return r.prefix + id
}

func (r *RedisRepository) Insert(ctx context.Context, p previewdomain.Preview) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(p.ID), body, r.retention).Err()
}

func (r *RedisRepository) FindByID(ctx context.Context, id string) (*previewdomain.Preview, error) {
	body, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, previewdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var p previewdomain.Preview
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Sweep is a no-op: expired keys are evicted by Redis itself.
func (r *RedisRepository) Sweep(context.Context) (int, error) {
	return 0, nil
}

func (r *RedisRepository) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 500).Result()
		if err != nil {
			return 0, err
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
