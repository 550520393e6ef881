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
	"log/slog"
	"sync"
)

// ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the most recent entries in a ring buffer.
type MemoryStore struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	entries []Entry
	next    int
	full    bool
}

// NewMemoryStore creates a MemoryStore holding up to size entries.
func NewMemoryStore(
	logger *slog.Logger,
	size int,
) *MemoryStore {
	if size < 1 {
		size = 1
	}

	return &MemoryStore{
		logger:  logger.With(slog.String("subsystem", "audit.memory")),
		entries: make([]Entry, size),
	}
}

// Write stores entry, evicting the oldest entry when full.
func (s *MemoryStore) Write(
	_ context.Context,
	entry Entry,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = entry
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}

	return nil
}

// Get retrieves a single audit entry by ID.
func (s *MemoryStore) Get(
	_ context.Context,
	id string,
) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.newestFirst() {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}

	return nil, ErrNotFound
}

// List retrieves audit entries with pagination, newest first.
func (s *MemoryStore) List(
	_ context.Context,
	limit int,
	offset int,
) ([]Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.newestFirst()
	total := len(all)

	if offset >= total {
		return []Entry{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return append([]Entry(nil), all[offset:end]...), total, nil
}

func (s *MemoryStore) newestFirst() []Entry {
	count := s.next
	if s.full {
		count = len(s.entries)
	}

	out := make([]Entry, 0, count)
	for i := 1; i <= count; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		out = append(out, s.entries[idx])
	}

	return out
}
