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
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/audit"
	"github.com/retr0h/backoffice/internal/auth"
	"github.com/retr0h/backoffice/internal/config"
	"github.com/retr0h/backoffice/internal/route"
)

// Server implementation of the Server's API operations.
type Server struct {
	// Echo server instance.
	Echo *echo.Echo

	logger     *slog.Logger
	appConfig  config.Config
	auditStore audit.Store
	tokens     TokenResolver
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithAuditStore records authenticated requests in store.
func WithAuditStore(
	store audit.Store,
) Option {
	return func(s *Server) {
		s.auditStore = store
	}
}

// WithTokenResolver authenticates bearer tokens on the JSON endpoints.
func WithTokenResolver(
	tokens TokenResolver,
) Option {
	return func(s *Server) {
		s.tokens = tokens
	}
}

// TokenResolver resumes the session identified by a sign in token.
type TokenResolver interface {
	Resume(
		ctx context.Context,
		token string,
	) *auth.Session
}

// RouteResolver turns a backend path into a controller match.
type RouteResolver interface {
	Resolve(p string) (*route.Match, error)
}

// PageRenderer renders the page served at a URL with its status.
type PageRenderer interface {
	Render(url string) (string, int, error)
}

// ErrorResponse is the JSON body of failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
