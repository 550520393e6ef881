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

package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// ensure RedisStore implements Store at compile time.
var _ Store = (*RedisStore)(nil)

// RedisStore keeps entries in a redis hash keyed by id, with a list of ids
// ordered newest first.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
	max    int64
}

// NewRedisStore creates a RedisStore. A max above zero caps the number of
// retained entries.
func NewRedisStore(
	logger *slog.Logger,
	client *redis.Client,
	prefix string,
	max int64,
) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With(slog.String("subsystem", "audit.redis")),
		prefix: prefix,
		max:    max,
	}
}

// Write persists an audit entry.
func (s *RedisStore) Write(
	ctx context.Context,
	entry Entry,
) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.entriesKey(), entry.ID, data)
	pipe.LPush(ctx, s.idsKey(), entry.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put audit entry: %w", err)
	}

	if s.max > 0 {
		return s.trim(ctx)
	}

	return nil
}

// Get retrieves a single audit entry by ID.
func (s *RedisStore) Get(
	ctx context.Context,
	id string,
) (*Entry, error) {
	data, err := s.client.HGet(ctx, s.entriesKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audit entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal audit entry: %w", err)
	}

	return &entry, nil
}

// List retrieves audit entries with pagination, newest first.
func (s *RedisStore) List(
	ctx context.Context,
	limit int,
	offset int,
) ([]Entry, int, error) {
	total, err := s.client.LLen(ctx, s.idsKey()).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	if int64(offset) >= total || limit <= 0 {
		return []Entry{}, int(total), nil
	}

	ids, err := s.client.LRange(ctx, s.idsKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("list audit keys: %w", err)
	}

	values, err := s.client.HMGet(ctx, s.entriesKey(), ids...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("get audit entries: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn(
				"failed to get audit entry",
				slog.String("key", ids[i]),
			)
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			s.logger.Warn(
				"failed to unmarshal audit entry",
				slog.String("key", ids[i]),
				slog.String("error", err.Error()),
			)
			continue
		}

		entries = append(entries, entry)
	}

	return entries, int(total), nil
}

// trim drops the entries beyond max.
func (s *RedisStore) trim(
	ctx context.Context,
) error {
	stale, err := s.client.LRange(ctx, s.idsKey(), s.max, -1).Result()
	if err != nil {
		return fmt.Errorf("list stale audit entries: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, s.entriesKey(), stale...)
	pipe.LTrim(ctx, s.idsKey(), 0, s.max-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("trim audit entries: %w", err)
	}

	return nil
}

func (s *RedisStore) entriesKey() string {
	return s.prefix + "audit:entries"
}

func (s *RedisStore) idsKey() string {
	return s.prefix + "audit:ids"
}
