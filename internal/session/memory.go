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
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

type memorySession struct {
	values    map[string]string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired sessions are
// dropped on access and by the scheduled garbage collection.
type MemoryStore struct {
	mu       sync.Mutex
	logger   *slog.Logger
	ttl      time.Duration
	sessions map[string]*memorySession
	now      func() time.Time
	cron     *cron.Cron
}

// NewMemoryStore creates a MemoryStore whose sessions idle out after ttl.
func NewMemoryStore(
	logger *slog.Logger,
	ttl time.Duration,
) *MemoryStore {
	return &MemoryStore{
		logger:   logger.With(slog.String("subsystem", "session.memory")),
		ttl:      ttl,
		sessions: make(map[string]*memorySession),
		now:      time.Now,
	}
}

// Get returns the value for key or ErrNotFound.
func (s *MemoryStore) Get(
	_ context.Context,
	id string,
	key string,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return "", ErrNotFound
	}

	v, ok := sess.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

// Put stores value under key and refreshes the session lifetime.
func (s *MemoryStore) Put(
	_ context.Context,
	id string,
	key string,
	value string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		sess = &memorySession{values: make(map[string]string)}
		s.sessions[id] = sess
	}

	sess.values[key] = value
	sess.expiresAt = s.now().Add(s.ttl)

	return nil
}

// Forget removes key from the session.
func (s *MemoryStore) Forget(
	_ context.Context,
	id string,
	key string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.live(id); sess != nil {
		delete(sess.values, key)
	}

	return nil
}

// Destroy removes the whole session.
func (s *MemoryStore) Destroy(
	_ context.Context,
	id string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)

	return nil
}

// Touch extends the lifetime of a live session.
func (s *MemoryStore) Touch(
	_ context.Context,
	id string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.live(id); sess != nil {
		sess.expiresAt = s.now().Add(s.ttl)
	}

	return nil
}

// GC removes expired sessions and returns how many were dropped.
func (s *MemoryStore) GC() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
			dropped++
		}
	}

	return dropped
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// StartGC runs GC on the given cron schedule until StopGC is called.
func (s *MemoryStore) StartGC(
	schedule string,
) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if dropped := s.GC(); dropped > 0 {
			s.logger.Debug("expired sessions removed", slog.Int("count", dropped))
		}
	}); err != nil {
		return err
	}

	s.cron = c
	c.Start()

	s.logger.Info("session garbage collection scheduled", slog.String("schedule", schedule))

	return nil
}

// StopGC stops the scheduled garbage collection, if any.
func (s *MemoryStore) StopGC() {
	if s.cron == nil {
		return
	}

	<-s.cron.Stop().Done()
}

// live returns the session if it exists and has not expired. The caller
// must hold the lock.
func (s *MemoryStore) live(
	id string,
) *memorySession {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}

	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, id)
		return nil
	}

	return sess
}
