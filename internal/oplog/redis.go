package oplog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisKey = "system_logs"

// RedisStore shares the operation log between service instances as a capped redis list.
type RedisStore struct {
	rdb      *redis.Client
	capacity int
}

func NewRedisStore(ctx context.Context, redisURL string, capacity int) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisStore{rdb: rdb, capacity: capacity}, nil
}

func (s *RedisStore) Record(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, redisKey, payload)
		pipe.LTrim(ctx, redisKey, 0, int64(s.capacity-1))
		return nil
	})
	return err
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Entry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	values, err := s.rdb.LRange(ctx, redisKey, 0, stop).Result()
	if err != nil {
		if err == redis.Nil {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read operation log: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for _, value := range values {
		var entry Entry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
