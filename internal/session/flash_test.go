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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// forgetFailingStore is a MemoryStore whose Forget always fails.
type forgetFailingStore struct {
	*MemoryStore
}

func (s *forgetFailingStore) Forget(
	_ context.Context,
	_ string,
	_ string,
) error {
	return errors.New("connection refused")
}

type FlashTestSuite struct {
	suite.Suite

	ctx  context.Context
	logs *bytes.Buffer
	log  *slog.Logger
}

func (s *FlashTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logs = &bytes.Buffer{}
	s.log = slog.New(slog.NewTextHandler(s.logs, nil))
}

func (s *FlashTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *FlashTestSuite) TearDownTest() {
	marshalFn = json.Marshal
}

func (s *FlashTestSuite) TestAll() {
	tests := []struct {
		name      string
		store     func(*MemoryStore) Store
		wantLog   string
		wantAgain int
	}{
		{
			name:      "when the store clears the messages",
			store:     func(m *MemoryStore) Store { return m },
			wantAgain: 0,
		},
		{
			name:      "when clearing fails logs the error",
			store:     func(m *MemoryStore) Store { return &forgetFailingStore{MemoryStore: m} },
			wantLog:   "failed to clear flash messages",
			wantAgain: 1,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := tt.store(NewMemoryStore(s.log, time.Hour))
			manager := NewManager(s.log, store, Options{})
			id := uuid.NewString()

			manager.Load(s.ctx, id).Flash().Success("Saved.")

			got := manager.Load(s.ctx, id).Flash().All()
			s.Equal([]Message{{Type: FlashSuccess, Text: "Saved."}}, got)
			s.Len(manager.Load(s.ctx, id).Flash().All(), tt.wantAgain)

			if tt.wantLog != "" {
				s.Contains(s.logs.String(), tt.wantLog)
				s.Contains(s.logs.String(), "connection refused")
			}
		})
	}
}

func (s *FlashTestSuite) TestAddEncodingFailure() {
	marshalFn = func(any) ([]byte, error) {
		return nil, errors.New("unsupported value")
	}

	manager := NewManager(s.log, NewMemoryStore(s.log, time.Hour), Options{})
	sess := manager.Load(s.ctx, uuid.NewString())

	sess.Flash().Error("Failed.")

	s.False(sess.Flash().Check())
	s.Contains(s.logs.String(), "failed to encode flash message")
	s.Contains(s.logs.String(), "unsupported value")
}

func TestFlashTestSuite(t *testing.T) {
	suite.Run(t, new(FlashTestSuite))
}
