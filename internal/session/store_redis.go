package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"civreg/pkg/domain"
	"civreg/pkg/platform/sentinel"
)

const sessionKeyPrefix = "civreg:session:"

// RedisStore shares sessions between instances. Expiry is delegated to Redis
// key TTLs.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisSessionKey(id domain.SessionID) string {
	return sessionKeyPrefix + id.String()
}

func (s *RedisStore) Get(ctx context.Context, id domain.SessionID) (*Session, error) {
	data, err := s.client.Get(ctx, redisSessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisSessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id domain.SessionID) error {
	if err := s.client.Del(ctx, redisSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

// Count scans the session keyspace. It is meant for the metrics gauge, not
// for hot paths.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("count sessions: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return n, nil
}
