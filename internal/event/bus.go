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

// Package event provides a synchronous, ordered event bus.
package event

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Listener handles an event. A non-nil result is collected by Fire and
// halts Until.
type Listener func(
	ctx context.Context,
	args ...any,
) (any, error)

type registration struct {
	listener Listener
	priority int
	seq      int
}

// Bus dispatches named events to their listeners in priority order, then
// registration order. A listener error aborts the dispatch.
type Bus struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	listeners map[string][]registration
	seq       int
}

// New creates an empty Bus.
func New(
	logger *slog.Logger,
) *Bus {
	return &Bus{
		logger:    logger.With(slog.String("subsystem", "event")),
		listeners: make(map[string][]registration),
	}
}

// Listen registers a listener with the default priority.
func (b *Bus) Listen(
	name string,
	listener Listener,
) {
	b.ListenPriority(name, 0, listener)
}

// ListenPriority registers a listener. Higher priorities run first.
func (b *Bus) ListenPriority(
	name string,
	priority int,
	listener Listener,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	regs := append(b.listeners[name], registration{
		listener: listener,
		priority: priority,
		seq:      b.seq,
	})
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].priority > regs[j].priority
	})
	b.listeners[name] = regs
}

// HasListeners reports whether name has any listener.
func (b *Bus) HasListeners(
	name string,
) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners[name]) > 0
}

// Fire calls every listener of name and returns their non-nil results.
func (b *Bus) Fire(
	ctx context.Context,
	name string,
	args ...any,
) ([]any, error) {
	var results []any
	for _, reg := range b.snapshot(name) {
		result, err := reg.listener(ctx, args...)
		if err != nil {
			b.logger.Debug(
				"listener failed",
				slog.String("event", name),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		if result != nil {
			results = append(results, result)
		}
	}

	return results, nil
}

// Until calls the listeners of name until one returns a non-nil result,
// and returns that result.
func (b *Bus) Until(
	ctx context.Context,
	name string,
	args ...any,
) (any, error) {
	for _, reg := range b.snapshot(name) {
		result, err := reg.listener(ctx, args...)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return nil, nil
}

func (b *Bus) snapshot(
	name string,
) []registration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	regs := b.listeners[name]
	out := make([]registration, len(regs))
	copy(out, regs)

	return out
}
