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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/retr0h/backoffice/internal/audit"
	"github.com/retr0h/backoffice/internal/backend"
	"github.com/retr0h/backoffice/internal/telemetry"
)

// excludedAuditPaths lists path prefixes that should not generate audit entries.
var excludedAuditPaths = []string{
	"/health",
	"/metrics",
}

// auditMiddleware returns Echo middleware that records audit entries for
// requests of signed in users. Writes are asynchronous to avoid adding latency.
func auditMiddleware(
	store audit.Store,
	logger *slog.Logger,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			for _, prefix := range excludedAuditPaths {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			start := time.Now()

			err := next(c)

			// Only audit authenticated requests.
			user, _ := c.Get(backend.ContextKeyUser).(string)
			if user == "" {
				return err
			}

			role, _ := c.Get(backend.ContextKeyRole).(string)
			ctx := c.Request().Context()

			entry := audit.Entry{
				ID:           uuid.New().String(),
				Timestamp:    start,
				User:         user,
				Role:         role,
				Method:       c.Request().Method,
				Path:         path,
				Handler:      requestHandler(c),
				SourceIP:     c.RealIP(),
				ResponseCode: c.Response().Status,
				DurationMs:   time.Since(start).Milliseconds(),
				TraceID:      telemetry.TraceID(ctx),
			}

			go func() {
				if writeErr := store.Write(context.WithoutCancel(ctx), entry); writeErr != nil {
					logger.Warn(
						"failed to write audit entry",
						slog.String("error", writeErr.Error()),
						slog.String("entry_id", entry.ID),
					)
				}
			}()

			return err
		}
	}
}

// requestHandler returns the AJAX or postback handler named by the
// request. The form is only read when the handler already parsed it.
func requestHandler(
	c echo.Context,
) string {
	if h := c.Request().Header.Get(backend.HandlerHeader); h != "" {
		return h
	}

	if form := c.Request().Form; form != nil {
		return form.Get(backend.HandlerField)
	}

	return ""
}
