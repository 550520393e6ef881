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

package event_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/event"
)

type BusPublicTestSuite struct {
	suite.Suite

	ctx context.Context
	bus *event.Bus
}

func (s *BusPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = event.New(slog.Default())
}

func (s *BusPublicTestSuite) listener(
	calls *[]string,
	name string,
	result any,
	err error,
) event.Listener {
	return func(_ context.Context, _ ...any) (any, error) {
		*calls = append(*calls, name)
		return result, err
	}
}

func (s *BusPublicTestSuite) TestFire() {
	tests := []struct {
		name        string
		setup       func(calls *[]string)
		wantCalls   []string
		wantResults []any
		expectError bool
	}{
		{
			name:      "when no listeners",
			setup:     func(_ *[]string) {},
			wantCalls: nil,
		},
		{
			name: "when listeners return values and nils",
			setup: func(calls *[]string) {
				s.bus.Listen("e", s.listener(calls, "a", "x", nil))
				s.bus.Listen("e", s.listener(calls, "b", nil, nil))
				s.bus.Listen("e", s.listener(calls, "c", 1, nil))
			},
			wantCalls:   []string{"a", "b", "c"},
			wantResults: []any{"x", 1},
		},
		{
			name: "when priority reorders listeners",
			setup: func(calls *[]string) {
				s.bus.Listen("e", s.listener(calls, "low", nil, nil))
				s.bus.ListenPriority("e", 10, s.listener(calls, "high", nil, nil))
				s.bus.ListenPriority("e", 10, s.listener(calls, "high2", nil, nil))
			},
			wantCalls: []string{"high", "high2", "low"},
		},
		{
			name: "when a listener fails the rest are skipped",
			setup: func(calls *[]string) {
				s.bus.Listen("e", s.listener(calls, "a", nil, errors.New("boom")))
				s.bus.Listen("e", s.listener(calls, "b", nil, nil))
			},
			wantCalls:   []string{"a"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			var calls []string
			tt.setup(&calls)

			results, err := s.bus.Fire(s.ctx, "e")
			s.Equal(tt.wantCalls, calls)
			if tt.expectError {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tt.wantResults, results)
		})
	}
}

func (s *BusPublicTestSuite) TestUntil() {
	var calls []string
	s.bus.Listen("e", s.listener(&calls, "a", nil, nil))
	s.bus.Listen("e", s.listener(&calls, "b", "halt", nil))
	s.bus.Listen("e", s.listener(&calls, "c", "late", nil))

	result, err := s.bus.Until(s.ctx, "e")
	s.NoError(err)
	s.Equal("halt", result)
	s.Equal([]string{"a", "b"}, calls)

	result, err = s.bus.Until(s.ctx, "missing")
	s.NoError(err)
	s.Nil(result)
}

func (s *BusPublicTestSuite) TestArgs() {
	s.bus.Listen("e", func(_ context.Context, args ...any) (any, error) {
		return args[0].(string) + "/" + args[1].(string), nil
	})

	result, err := s.bus.Until(s.ctx, "e", "index", "onSave")
	s.NoError(err)
	s.Equal("index/onSave", result)
	s.True(s.bus.HasListeners("e"))
	s.False(s.bus.HasListeners("other"))
}

func TestBusPublicTestSuite(t *testing.T) {
	suite.Run(t, new(BusPublicTestSuite))
}
