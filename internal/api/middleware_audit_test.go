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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/audit"
	"github.com/retr0h/backoffice/internal/backend"
)

// fakeAuditStore is a simple in-memory audit store for testing.
type fakeAuditStore struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (f *fakeAuditStore) Write(
	_ context.Context,
	entry audit.Entry,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) Get(
	_ context.Context,
	_ string,
) (*audit.Entry, error) {
	return nil, nil
}

func (f *fakeAuditStore) List(
	_ context.Context,
	_ int,
	_ int,
) ([]audit.Entry, int, error) {
	return nil, 0, nil
}

func (f *fakeAuditStore) getEntries() []audit.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := make([]audit.Entry, len(f.entries))
	copy(cp, f.entries)
	return cp
}

type AuditMiddlewareTestSuite struct {
	suite.Suite
}

func (s *AuditMiddlewareTestSuite) TestAuditMiddleware() {
	tests := []struct {
		name         string
		method       string
		path         string
		user         string
		role         string
		header       string
		form         url.Values
		storeErr     error
		validateFunc func(store *fakeAuditStore)
	}{
		{
			name: "authenticated request is logged",
			path: "/backend/acme/blog/posts",
			user: "admin",
			role: "publisher",
			validateFunc: func(store *fakeAuditStore) {
				// Give goroutine time to write
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Len(entries, 1)
				s.Equal("admin", entries[0].User)
				s.Equal("GET", entries[0].Method)
				s.Equal("/backend/acme/blog/posts", entries[0].Path)
				s.Equal(http.StatusOK, entries[0].ResponseCode)
				s.Equal("publisher", entries[0].Role)
				s.Empty(entries[0].Handler)
				s.NotEmpty(entries[0].ID)
			},
		},
		{
			name:   "ajax handler is recorded",
			method: http.MethodPost,
			path:   "/backend/acme/blog/posts",
			user:   "admin",
			header: "onSave",
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Len(entries, 1)
				s.Equal("onSave", entries[0].Handler)
				s.Equal("POST", entries[0].Method)
			},
		},
		{
			name:   "postback handler is recorded",
			method: http.MethodPost,
			path:   "/backend/backend/auth/signin",
			user:   "admin",
			form:   url.Values{backend.HandlerField: {"onSignin"}},
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Len(entries, 1)
				s.Equal("onSignin", entries[0].Handler)
			},
		},
		{
			name: "unauthenticated request is skipped",
			path: "/backend/acme/blog/posts",
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Empty(entries)
			},
		},
		{
			name: "health path is excluded",
			path: "/health",
			user: "admin",
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Empty(entries)
			},
		},
		{
			name: "health ready path is excluded",
			path: "/health/ready",
			user: "admin",
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Empty(entries)
			},
		},
		{
			name: "metrics path is excluded",
			path: "/metrics",
			user: "admin",
			validateFunc: func(store *fakeAuditStore) {
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Empty(entries)
			},
		},
		{
			name:     "store error is handled gracefully",
			path:     "/backend/acme/blog/posts",
			user:     "admin",
			storeErr: fmt.Errorf("write failed"),
			validateFunc: func(store *fakeAuditStore) {
				// Should not panic; the middleware logs the error
				time.Sleep(50 * time.Millisecond)
				entries := store.getEntries()
				s.Empty(entries)
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store := &fakeAuditStore{err: tt.storeErr}
			logger := slog.Default()

			method := tt.method
			if method == "" {
				method = http.MethodGet
			}

			e := echo.New()
			e.Use(auditMiddleware(store, logger))
			e.Add(method, tt.path, func(c echo.Context) error {
				// Simulate the dispatcher binding the signed in user.
				if tt.user != "" {
					c.Set(backend.ContextKeyUser, tt.user)
					c.Set(backend.ContextKeyRole, tt.role)
				}
				if tt.form != nil {
					_ = c.FormValue(backend.HandlerField)
				}
				return c.String(http.StatusOK, "ok")
			})

			body := strings.NewReader("")
			if tt.form != nil {
				body = strings.NewReader(tt.form.Encode())
			}

			req := httptest.NewRequest(method, tt.path, body)
			if tt.form != nil {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			}
			if tt.header != "" {
				req.Header.Set(backend.HandlerHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			s.Equal(http.StatusOK, rec.Code)
			tt.validateFunc(store)
		})
	}
}

func TestAuditMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuditMiddlewareTestSuite))
}
