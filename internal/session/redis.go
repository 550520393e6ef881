// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// ensure RedisStore implements Store at compile time.
var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session as a redis hash that expires after ttl.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. Keys are stored as prefix + id.
func NewRedisStore(
	logger *slog.Logger,
	client *redis.Client,
	prefix string,
	ttl time.Duration,
) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With(slog.String("subsystem", "session.redis")),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get returns the value for key or ErrNotFound.
func (s *RedisStore) Get(
	ctx context.Context,
	id string,
	key string,
) (string, error) {
	v, err := s.client.HGet(ctx, s.key(id), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get session value: %w", err)
	}

	return v, nil
}

// Put stores value under key and refreshes the session lifetime.
func (s *RedisStore) Put(
	ctx context.Context,
	id string,
	key string,
	value string,
) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(id), key, value)
	pipe.Expire(ctx, s.key(id), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put session value: %w", err)
	}

	return nil
}

// Forget removes key from the session.
func (s *RedisStore) Forget(
	ctx context.Context,
	id string,
	key string,
) error {
	if err := s.client.HDel(ctx, s.key(id), key).Err(); err != nil {
		return fmt.Errorf("forget session value: %w", err)
	}

	return nil
}

// Destroy removes the whole session.
func (s *RedisStore) Destroy(
	ctx context.Context,
	id string,
) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	return nil
}

// Touch resets the expiry of the session hash. EXPIRE is a no-op for
// missing keys.
func (s *RedisStore) Touch(
	ctx context.Context,
	id string,
) error {
	if err := s.client.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

func (s *RedisStore) key(
	id string,
) string {
	return s.prefix + id
}
