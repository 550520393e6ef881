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

package audit_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	apiaudit "github.com/retr0h/backoffice/internal/api/audit"
	auditstore "github.com/retr0h/backoffice/internal/audit"
)

type AuditListPublicTestSuite struct {
	suite.Suite

	store *fakeStore
	e     *echo.Echo
}

func (s *AuditListPublicTestSuite) SetupTest() {
	s.store = &fakeStore{}
	s.e = echo.New()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	apiaudit.New(logger, s.store).RegisterHandlers(s.e)
}

func (s *AuditListPublicTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *AuditListPublicTestSuite) TestGetAuditLogs() {
	entry := auditstore.Entry{
		ID:           "550e8400-e29b-41d4-a716-446655440000",
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		User:         "admin",
		Role:         "admin",
		Method:       "POST",
		Path:         "/backend/acme/blog/posts",
		Handler:      "onSave",
		SourceIP:     "127.0.0.1",
		ResponseCode: 200,
		DurationMs:   12,
	}

	tests := []struct {
		name         string
		query        string
		entries      []auditstore.Entry
		total        int
		listErr      error
		wantCode     int
		wantLimit    int
		wantOffset   int
		wantItems    int
		wantContains string
	}{
		{
			name:      "when defaults apply",
			entries:   []auditstore.Entry{entry},
			total:     1,
			wantCode:  http.StatusOK,
			wantLimit: apiaudit.DefaultLimit,
			wantItems: 1,
		},
		{
			name:       "when limit and offset are given",
			query:      "?limit=5&offset=10",
			total:      11,
			wantCode:   http.StatusOK,
			wantLimit:  5,
			wantOffset: 10,
		},
		{
			name:         "when limit is out of range",
			query:        "?limit=1000",
			wantCode:     http.StatusBadRequest,
			wantContains: "Limit",
		},
		{
			name:         "when limit is not a number",
			query:        "?limit=abc",
			wantCode:     http.StatusBadRequest,
			wantContains: "invalid query parameters",
		},
		{
			name:         "when the store fails",
			listErr:      errors.New("redis down"),
			wantCode:     http.StatusInternalServerError,
			wantContains: "failed to list audit entries",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.store.listEntries = tt.entries
			s.store.listTotal = tt.total
			s.store.listErr = tt.listErr

			req := httptest.NewRequest(http.MethodGet, apiaudit.Path+tt.query, nil)
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)

			s.Equal(tt.wantCode, rec.Code)
			if tt.wantContains != "" {
				s.Contains(rec.Body.String(), tt.wantContains)
				return
			}

			var resp apiaudit.ListResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Equal(tt.total, resp.TotalItems)
			s.Len(resp.Items, tt.wantItems)
			s.NotNil(resp.Items)
			s.Equal(tt.wantLimit, s.store.limit)
			s.Equal(tt.wantOffset, s.store.offset)
		})
	}
}

func TestAuditListPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuditListPublicTestSuite))
}
