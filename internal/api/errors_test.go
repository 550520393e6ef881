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
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/backoffice/internal/apperr"
	"github.com/retr0h/backoffice/internal/backend"
)

type ErrorsTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (s *ErrorsTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (s *ErrorsTestSuite) TestHTTPErrorHandler() {
	tests := []struct {
		name        string
		err         error
		debug       bool
		ajax        bool
		wantCode    int
		wantBody    string
		wantJSON    bool
		notContains string
	}{
		{
			name:     "echo errors keep their status",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			wantCode: http.StatusMethodNotAllowed,
			wantBody: "nope",
		},
		{
			name:     "validation errors are user facing",
			err:      apperr.Validation("Title is required.", nil),
			wantCode: http.StatusBadRequest,
			wantBody: "Title is required.",
		},
		{
			name:     "not found errors map to 404",
			err:      apperr.NotFound("no action %q", "edit"),
			wantCode: http.StatusNotFound,
			wantBody: `no action "edit"`,
		},
		{
			name:        "configuration errors are hidden",
			err:         apperr.Configuration("widget %q is not bound", "list"),
			wantCode:    http.StatusInternalServerError,
			wantBody:    http.StatusText(http.StatusInternalServerError),
			notContains: "widget",
		},
		{
			name:     "configuration errors show in debug",
			err:      apperr.Configuration("widget %q is not bound", "list"),
			debug:    true,
			wantCode: http.StatusInternalServerError,
			wantBody: `widget "list" is not bound`,
		},
		{
			name:        "unknown errors are hidden",
			err:         errors.New("db password leaked"),
			wantCode:    http.StatusInternalServerError,
			wantBody:    http.StatusText(http.StatusInternalServerError),
			notContains: "password",
		},
		{
			name:     "ajax requests get json",
			err:      apperr.Application("Post is locked."),
			ajax:     true,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Post is locked."}`,
			wantJSON: true,
		},
		{
			name: "ajax errors write their payload",
			err: &apperr.AjaxError{
				Status:  http.StatusNotAcceptable,
				Payload: map[string]any{"result": "Nope"},
			},
			wantCode: http.StatusNotAcceptable,
			wantBody: `{"result":"Nope"}`,
			wantJSON: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			e := echo.New()
			e.HTTPErrorHandler = httpErrorHandler(s.logger, tt.debug)
			e.GET("/fail", func(_ echo.Context) error {
				return tt.err
			})

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			if tt.ajax {
				req.Header.Set(backend.HandlerHeader, "onSave")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			s.Equal(tt.wantCode, rec.Code)
			if tt.wantJSON {
				s.JSONEq(tt.wantBody, rec.Body.String())
			} else {
				s.Contains(rec.Body.String(), tt.wantBody)
			}
			if tt.notContains != "" {
				s.NotContains(rec.Body.String(), tt.notContains)
			}
		})
	}
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
